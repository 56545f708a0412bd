package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserItemBudget 用户在某个账本上的个人预算
type UserItemBudget struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_budget_user_item"`
	ItemID    string    `json:"item_id" gorm:"size:36;not null;uniqueIndex:idx_budget_user_item;index"`
	Budget    float64   `json:"budget" gorm:"type:decimal(12,2);not null;default:0"`
	Currency  string    `json:"currency" gorm:"size:20;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 设置表名
func (UserItemBudget) TableName() string {
	return "user_item_budgets"
}

// BeforeCreate 生成 UUID 主键
func (b *UserItemBudget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
