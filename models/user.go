package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Name      *string   `json:"name" gorm:"size:100"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 生成 UUID 主键
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName 返回展示名称，未设置时使用邮箱
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}
