package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseTemplate 用户自定义的消费类别快捷方式
type ExpenseTemplate struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"size:36;index;not null"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	Position  int       `json:"position" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 设置表名
func (ExpenseTemplate) TableName() string {
	return "expense_templates"
}

// BeforeCreate 生成 UUID 主键
func (t *ExpenseTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// DefaultTemplateNames 新用户的默认模板，顺序即位置
func DefaultTemplateNames() []string {
	return []string{
		"Eating out",
		"Groceries",
		"Transport",
		"Utilities",
		"Entertainment",
		"Health",
	}
}
