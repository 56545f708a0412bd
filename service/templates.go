package service

import (
	"context"
	"errors"

	"expensehub/config"
	"expensehub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TemplateService 用户消费模板
type TemplateService struct {
	db *gorm.DB
}

// NewTemplateService 创建模板服务
func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// CreateTemplateInput 创建参数，Position 为 nil 时追加到末尾
type CreateTemplateInput struct {
	Name     string
	Position *int
}

// UpdateTemplateInput 部分更新参数
type UpdateTemplateInput struct {
	Name     *string
	Position *int
}

// lockUser 锁定用户行，串行化同一用户的模板写入
func lockUser(tx *gorm.DB, userID string) error {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return unauthorized("用户不存在")
	}
	return err
}

// List 按位置返回模板；用户没有任何模板时先写入默认模板
func (s *TemplateService) List(ctx context.Context, userID string) ([]models.ExpenseTemplate, error) {
	templates := make([]models.ExpenseTemplate, 0)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Order("position, created_at").Find(&templates).Error; err != nil {
			return err
		}
		if len(templates) > 0 {
			return nil
		}

		for i, name := range models.DefaultTemplateNames() {
			templates = append(templates, models.ExpenseTemplate{
				UserID:   userID,
				Name:     name,
				Position: i,
			})
		}
		return tx.Create(&templates).Error
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Create 新增模板，超过上限返回 QuotaExceeded
func (s *TemplateService) Create(ctx context.Context, userID string, in CreateTemplateInput) (*models.ExpenseTemplate, error) {
	var template *models.ExpenseTemplate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.ExpenseTemplate{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= config.MaxTemplates() {
			return quotaExceeded("模板数量已达上限")
		}

		position := int(count)
		if in.Position != nil {
			position = *in.Position
		}
		template = &models.ExpenseTemplate{
			UserID:   userID,
			Name:     in.Name,
			Position: position,
		}
		return tx.Create(template).Error
	})
	if err != nil {
		return nil, err
	}
	return template, nil
}

// Update 修改调用者自己的模板
func (s *TemplateService) Update(ctx context.Context, userID, templateID string, in UpdateTemplateInput) (*models.ExpenseTemplate, error) {
	var template models.ExpenseTemplate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findTemplate(tx, userID, templateID, &template); err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Position != nil {
			updates["position"] = *in.Position
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&template).Updates(updates).Error; err != nil {
			return err
		}
		return findTemplate(tx, userID, templateID, &template)
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// Delete 删除调用者自己的模板
func (s *TemplateService) Delete(ctx context.Context, userID, templateID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", templateID, userID).
		Delete(&models.ExpenseTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("模板不存在")
	}
	return nil
}

// Reorder 按给定顺序重排位置，不属于调用者的ID直接跳过
func (s *TemplateService) Reorder(ctx context.Context, userID string, orderedIDs []string) ([]models.ExpenseTemplate, error) {
	templates := make([]models.ExpenseTemplate, 0)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&models.ExpenseTemplate{}).
				Where("id = ? AND user_id = ?", id, userID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return tx.Where("user_id = ?", userID).Order("position, created_at").Find(&templates).Error
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func findTemplate(tx *gorm.DB, userID, templateID string, out *models.ExpenseTemplate) error {
	err := tx.Where("id = ? AND user_id = ?", templateID, userID).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("模板不存在")
	}
	return err
}
