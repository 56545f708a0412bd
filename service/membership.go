package service

import (
	"expensehub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipResolver 将待处理邀请转换为账本参与关系
type MembershipResolver struct{}

// NewMembershipResolver 创建邀请解析器
func NewMembershipResolver() *MembershipResolver {
	return &MembershipResolver{}
}

// ResolvePendingInvitations 在调用方事务 tx 内处理 user 邮箱的全部待处理邀请。
// 已是参与者时跳过，不报错；处理完成的邀请全部删除。返回新建的参与关系数量。
func (r *MembershipResolver) ResolvePendingInvitations(tx *gorm.DB, user *models.User) (int, error) {
	var invitations []models.PendingInvitation
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", user.Email).
		Find(&invitations).Error; err != nil {
		return 0, err
	}
	if len(invitations) == 0 {
		return 0, nil
	}

	itemIDs := make([]string, 0, len(invitations))
	invitationIDs := make([]string, 0, len(invitations))
	for _, inv := range invitations {
		itemIDs = append(itemIDs, inv.ItemID)
		invitationIDs = append(invitationIDs, inv.ID)
	}

	// 账本已删除或用户本身是拥有者的邀请只删除，不建立关系
	var items []models.Item
	if err := tx.Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
		return 0, err
	}

	created := 0
	for _, item := range items {
		if item.OwnerID == user.ID {
			continue
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.ItemParticipant{ItemID: item.ID, UserID: user.ID})
		if res.Error != nil {
			return 0, res.Error
		}
		created += int(res.RowsAffected)
	}

	if err := tx.Where("id IN ?", invitationIDs).Delete(&models.PendingInvitation{}).Error; err != nil {
		return 0, err
	}
	return created, nil
}
