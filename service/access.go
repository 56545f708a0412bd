package service

import (
	"errors"

	"expensehub/models"

	"gorm.io/gorm"
)

// Role 调用者相对账本的身份
type Role int

const (
	RoleNone Role = iota
	RoleParticipant
	RoleOwner
)

// IsMember 拥有者或参与者
func (r Role) IsMember() bool {
	return r == RoleOwner || r == RoleParticipant
}

// loadItem 读取账本，不存在时返回 NotFound
func loadItem(tx *gorm.DB, itemID string) (*models.Item, error) {
	var item models.Item
	if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("账本不存在")
		}
		return nil, err
	}
	return &item, nil
}

// isParticipant 判断用户是否为账本参与者（不含拥有者）
func isParticipant(tx *gorm.DB, itemID, userID string) (bool, error) {
	var count int64
	if err := tx.Model(&models.ItemParticipant{}).
		Where("item_id = ? AND user_id = ?", itemID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// roleOf 计算用户在账本中的身份
func roleOf(tx *gorm.DB, item *models.Item, userID string) (Role, error) {
	if item.OwnerID == userID {
		return RoleOwner, nil
	}
	ok, err := isParticipant(tx, item.ID, userID)
	if err != nil {
		return RoleNone, err
	}
	if ok {
		return RoleParticipant, nil
	}
	return RoleNone, nil
}

// requireMember 拥有者或参与者可访问
func requireMember(tx *gorm.DB, itemID, userID string) (*models.Item, Role, error) {
	item, err := loadItem(tx, itemID)
	if err != nil {
		return nil, RoleNone, err
	}
	role, err := roleOf(tx, item, userID)
	if err != nil {
		return nil, RoleNone, err
	}
	if !role.IsMember() {
		return nil, RoleNone, forbidden("无权访问该账本")
	}
	return item, role, nil
}

// requireOwner 仅拥有者可操作
func requireOwner(tx *gorm.DB, itemID, userID string) (*models.Item, error) {
	item, err := loadItem(tx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, forbidden("只有账本拥有者可以执行该操作")
	}
	return item, nil
}

// requireBudgetAccess 个人账本仅拥有者，共享账本拥有者或参与者
func requireBudgetAccess(tx *gorm.DB, itemID, userID string) (*models.Item, error) {
	item, err := loadItem(tx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsShared() {
		if item.OwnerID != userID {
			return nil, forbidden("无权访问该账本的预算")
		}
		return item, nil
	}
	role, err := roleOf(tx, item, userID)
	if err != nil {
		return nil, err
	}
	if !role.IsMember() {
		return nil, forbidden("无权访问该账本的预算")
	}
	return item, nil
}
