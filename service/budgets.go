package service

import (
	"context"

	"expensehub/config"
	"expensehub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetService 用户在账本上的个人预算
type BudgetService struct {
	db *gorm.DB
}

// NewBudgetService 创建预算服务
func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{db: db}
}

// GetOrCreate 读取预算，不存在时以 0 和默认币种创建。
// 并发创建由 (user_id, item_id) 唯一索引兜底，冲突时直接读取已有记录。
func (s *BudgetService) GetOrCreate(ctx context.Context, userID, itemID string) (*models.UserItemBudget, error) {
	var budget models.UserItemBudget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireBudgetAccess(tx, itemID, userID); err != nil {
			return err
		}
		fresh := &models.UserItemBudget{
			UserID:   userID,
			ItemID:   itemID,
			Budget:   0,
			Currency: config.DefaultCurrency(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).Create(fresh).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND item_id = ?", userID, itemID).First(&budget).Error
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// Update 写入预算金额和币种，记录不存在时创建
func (s *BudgetService) Update(ctx context.Context, userID, itemID string, amount float64, currency string) (*models.UserItemBudget, error) {
	var budget models.UserItemBudget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireBudgetAccess(tx, itemID, userID); err != nil {
			return err
		}
		row := &models.UserItemBudget{
			UserID:   userID,
			ItemID:   itemID,
			Budget:   amount,
			Currency: currency,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"budget", "currency"}),
		}).Create(row).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND item_id = ?", userID, itemID).First(&budget).Error
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}
