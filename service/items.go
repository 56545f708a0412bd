package service

import (
	"context"
	"time"

	"expensehub/models"

	"gorm.io/gorm"
)

// ItemService 账本增删改查
type ItemService struct {
	db *gorm.DB
}

// NewItemService 创建账本服务
func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{db: db}
}

// ItemView 账本列表项，附带拥有者邮箱
type ItemView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ItemType   string    `json:"item_type"`
	OwnerID    string    `json:"owner_id"`
	OwnerEmail string    `json:"owner_email"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateItemInput 创建参数
type CreateItemInput struct {
	Name     string
	ItemType string
}

// UpdateItemInput 部分更新参数，nil 表示不修改
type UpdateItemInput struct {
	Name       *string
	ItemType   *string
	IsArchived *bool
}

// onlyArchive 是否仅修改归档状态
func (in UpdateItemInput) onlyArchive() bool {
	return in.Name == nil && in.ItemType == nil
}

// List 获取用户拥有或参与的账本
func (s *ItemService) List(ctx context.Context, userID string) ([]ItemView, error) {
	views := make([]ItemView, 0)
	err := s.db.WithContext(ctx).
		Table("items").
		Select("items.id, items.name, items.item_type, items.owner_id, users.email AS owner_email, items.is_archived, items.created_at").
		Joins("LEFT JOIN users ON users.id = items.owner_id").
		Where("items.owner_id = ? OR items.id IN (?)", userID,
			s.db.Model(&models.ItemParticipant{}).Select("item_id").Where("user_id = ?", userID)).
		Order("items.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Create 创建账本，调用者成为拥有者
func (s *ItemService) Create(ctx context.Context, userID string, in CreateItemInput) (*models.Item, error) {
	item := &models.Item{
		Name:     in.Name,
		ItemType: in.ItemType,
		OwnerID:  userID,
	}
	if item.ItemType == "" {
		item.ItemType = models.ItemTypePersonal
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Get 获取单个账本，拥有者或参与者可见
func (s *ItemService) Get(ctx context.Context, userID, itemID string) (*models.Item, error) {
	item, _, err := requireMember(s.db.WithContext(ctx), itemID, userID)
	return item, err
}

// Update 部分更新账本。仅修改归档状态时参与者也可操作，其余字段仅拥有者
func (s *ItemService) Update(ctx context.Context, userID, itemID string, in UpdateItemInput) (*models.Item, error) {
	var item *models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if in.onlyArchive() {
			item, _, err = requireMember(tx, itemID, userID)
		} else {
			item, err = requireOwner(tx, itemID, userID)
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.ItemType != nil {
			updates["item_type"] = *in.ItemType
		}
		if in.IsArchived != nil {
			updates["is_archived"] = *in.IsArchived
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(item).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", itemID).First(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 删除账本及其消费、预算、参与关系与邀请，仅拥有者
func (s *ItemService) Delete(ctx context.Context, userID, itemID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := requireOwner(tx, itemID, userID)
		if err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.Expense{},
			&models.UserItemBudget{},
			&models.ItemParticipant{},
			&models.PendingInvitation{},
		} {
			if err := tx.Where("item_id = ?", item.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(item).Error
	})
}
