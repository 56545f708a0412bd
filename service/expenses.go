package service

import (
	"context"
	"errors"
	"time"

	"expensehub/config"
	"expensehub/models"

	"gorm.io/gorm"
)

// ExpenseService 消费记录管理
type ExpenseService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewExpenseService 创建消费服务
func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db, now: time.Now}
}

// CreateExpenseInput 创建参数
type CreateExpenseInput struct {
	Amount               float64
	Description          string
	PaymentMethod        string
	Currency             string
	PaidBy               *string
	SplitType            string
	AssignedTo           *string
	SelectedParticipants []string
	Date                 *string
}

// UpdateExpenseInput 部分更新参数，nil 表示不修改。
// 分摊方式与分摊对象之间不做交叉校验。
type UpdateExpenseInput struct {
	Amount               *float64
	Description          *string
	PaymentMethod        *string
	Currency             *string
	PaidBy               *string
	SplitType            *string
	AssignedTo           *string
	SelectedParticipants *[]string
	Date                 *string
}

// List 获取账本下的全部消费
func (s *ExpenseService) List(ctx context.Context, userID, itemID string) ([]models.Expense, error) {
	db := s.db.WithContext(ctx)
	if _, _, err := requireMember(db, itemID, userID); err != nil {
		return nil, err
	}
	expenses := make([]models.Expense, 0)
	if err := db.Where("item_id = ?", itemID).Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// Create 新增消费，付款人默认为调用者
func (s *ExpenseService) Create(ctx context.Context, userID, itemID string, in CreateExpenseInput) (*models.Expense, error) {
	db := s.db.WithContext(ctx)
	if _, _, err := requireMember(db, itemID, userID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ItemID:               itemID,
		Amount:               in.Amount,
		Description:          in.Description,
		PaymentMethod:        in.PaymentMethod,
		Currency:             in.Currency,
		PaidBy:               userID,
		SplitType:            in.SplitType,
		AssignedTo:           in.AssignedTo,
		SelectedParticipants: models.ParticipantList(in.SelectedParticipants),
		Date:                 s.parseDate(in.Date),
	}
	if in.PaidBy != nil && *in.PaidBy != "" {
		expense.PaidBy = *in.PaidBy
	}
	if expense.Currency == "" {
		expense.Currency = config.DefaultCurrency()
	}
	if expense.SplitType == "" {
		expense.SplitType = models.SplitTypeDivided
	}
	if expense.PaymentMethod == "" {
		expense.PaymentMethod = models.PaymentMethodCash
	}

	if err := db.Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

// Update 部分更新消费，仅修改提供的字段
func (s *ExpenseService) Update(ctx context.Context, userID, itemID, expenseID string, in UpdateExpenseInput) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := requireMember(tx, itemID, userID); err != nil {
			return err
		}
		if err := findExpense(tx, itemID, expenseID, &expense); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Amount != nil {
			updates["amount"] = *in.Amount
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.PaymentMethod != nil {
			updates["payment_method"] = *in.PaymentMethod
		}
		if in.Currency != nil {
			updates["currency"] = *in.Currency
		}
		if in.PaidBy != nil {
			updates["paid_by"] = *in.PaidBy
		}
		if in.SplitType != nil {
			updates["split_type"] = *in.SplitType
		}
		if in.AssignedTo != nil {
			updates["assigned_to"] = *in.AssignedTo
		}
		if in.SelectedParticipants != nil {
			// 显式传入空列表表示清空
			updates["selected_participants"] = models.ParticipantList(*in.SelectedParticipants)
		}
		if in.Date != nil {
			updates["date"] = s.parseDate(in.Date)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&expense).Updates(updates).Error; err != nil {
			return err
		}
		return findExpense(tx, itemID, expenseID, &expense)
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// Delete 删除消费
func (s *ExpenseService) Delete(ctx context.Context, userID, itemID, expenseID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := requireMember(tx, itemID, userID); err != nil {
			return err
		}
		var expense models.Expense
		if err := findExpense(tx, itemID, expenseID, &expense); err != nil {
			return err
		}
		return tx.Delete(&expense).Error
	})
}

func (s *ExpenseService) parseDate(raw *string) time.Time {
	if raw == nil {
		return s.now()
	}
	return ParseExpenseDate(*raw, s.now)
}

// findExpense 按账本范围查找消费
func findExpense(tx *gorm.DB, itemID, expenseID string, out *models.Expense) error {
	err := tx.Where("id = ? AND item_id = ?", expenseID, itemID).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("消费记录不存在")
	}
	return err
}
