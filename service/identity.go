package service

import (
	"context"
	"errors"

	"expensehub/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IdentityService 用户注册、凭证校验与身份解析
type IdentityService struct {
	db       *gorm.DB
	resolver *MembershipResolver
}

// NewIdentityService 创建身份服务
func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db, resolver: NewMembershipResolver()}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string
	Password string
	Name     *string
}

// HashPassword bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword 校验密码与摘要是否匹配
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// Register 注册用户，并在同一事务内将该邮箱的待处理邀请转为参与关系
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	digest, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    in.Email,
		Password: digest,
		Name:     in.Name,
	}

	var resolved int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflict("邮箱已被注册")
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("邮箱已被注册")
			}
			return err
		}

		n, err := s.resolver.ResolvePendingInvitations(tx, user)
		if err != nil {
			return err
		}
		resolved = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resolved > 0 {
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,
			"invitations": resolved,
		}).Info("注册时已接受待处理邀请")
	}
	return user, nil
}

// Authenticate 校验邮箱与密码，失败统一返回 Unauthorized
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized("邮箱或密码错误")
		}
		return nil, err
	}
	if !CheckPassword(password, user.Password) {
		return nil, unauthorized("邮箱或密码错误")
	}
	return &user, nil
}

// Resolve 根据令牌中的邮箱解析用户，用户不存在时返回 Unauthorized
func (s *IdentityService) Resolve(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers 获取全部用户
func (s *IdentityService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
