package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 支付方式
const (
	PaymentMethodBank = "bank"
	PaymentMethodCash = "cash"
)

// 分摊方式
const (
	SplitTypeDivided  = "divided"
	SplitTypeAssigned = "assigned"
	SplitTypeSelected = "selected"
)

// Expense 消费记录模型
type Expense struct {
	ID                   string          `json:"id" gorm:"primaryKey;size:36"`
	ItemID               string          `json:"item_id" gorm:"size:36;index;not null"`
	Amount               float64         `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description          string          `json:"description" gorm:"size:255"`
	PaymentMethod        string          `json:"payment_method" gorm:"size:10;not null;default:cash"`
	Currency             string          `json:"currency" gorm:"size:20;not null"`
	PaidBy               string          `json:"paid_by" gorm:"size:36;index;not null"`
	SplitType            string          `json:"split_type" gorm:"size:20;not null;default:divided"`
	AssignedTo           *string         `json:"assigned_to" gorm:"size:36"`
	SelectedParticipants ParticipantList `json:"selected_participants" gorm:"type:text"`
	Date                 time.Time       `json:"date" gorm:"not null;index"`
	CreatedAt            time.Time       `json:"created_at"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// BeforeCreate 生成 UUID 主键
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// ValidPaymentMethod 校验支付方式
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodBank || m == PaymentMethodCash
}

// ValidSplitType 校验分摊方式
func ValidSplitType(s string) bool {
	switch s {
	case SplitTypeDivided, SplitTypeAssigned, SplitTypeSelected:
		return true
	}
	return false
}

// ParticipantList 有序的用户ID列表，以逗号拼接的文本存储
type ParticipantList []string

// Value 实现 driver.Valuer，空列表存为 NULL
func (p ParticipantList) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return strings.Join(p, ","), nil
}

// Scan 实现 sql.Scanner
func (p *ParticipantList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("无法将 %T 转换为 ParticipantList", value)
	}
	if raw == "" {
		*p = nil
		return nil
	}
	*p = strings.Split(raw, ",")
	return nil
}

// Contains 判断用户是否在列表中
func (p ParticipantList) Contains(userID string) bool {
	for _, id := range p {
		if id == userID {
			return true
		}
	}
	return false
}
