package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 账本类型
const (
	ItemTypePersonal = "personal"
	ItemTypeShared   = "shared"
)

// Item 账本（个人或共享的消费分组）
type Item struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	ItemType   string    `json:"item_type" gorm:"size:20;not null;default:personal"`
	OwnerID    string    `json:"owner_id" gorm:"size:36;index;not null"`
	IsArchived bool      `json:"is_archived" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	Owner      User      `json:"-" gorm:"foreignKey:OwnerID"`
}

// TableName 设置表名
func (Item) TableName() string {
	return "items"
}

// BeforeCreate 生成 UUID 主键
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IsShared 是否为共享账本
func (i *Item) IsShared() bool {
	return i.ItemType == ItemTypeShared
}

// ValidItemType 校验账本类型
func ValidItemType(t string) bool {
	return t == ItemTypePersonal || t == ItemTypeShared
}

// ItemParticipant 账本参与者关联表，不包含拥有者
type ItemParticipant struct {
	ItemID  string    `json:"item_id" gorm:"primaryKey;size:36"`
	UserID  string    `json:"user_id" gorm:"primaryKey;size:36;index"`
	AddedAt time.Time `json:"added_at" gorm:"autoCreateTime"`
}

// TableName 设置表名
func (ItemParticipant) TableName() string {
	return "item_participants"
}

// PendingInvitation 尚未注册邮箱的待处理邀请
type PendingInvitation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ItemID    string    `json:"item_id" gorm:"size:36;not null;uniqueIndex:idx_invitation_item_email"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex:idx_invitation_item_email;index"`
	InvitedAt time.Time `json:"invited_at" gorm:"autoCreateTime"`
}

// TableName 设置表名
func (PendingInvitation) TableName() string {
	return "pending_invitations"
}

// BeforeCreate 生成 UUID 主键
func (p *PendingInvitation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
