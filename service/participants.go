package service

import (
	"context"
	"errors"

	"expensehub/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ParticipantDescriptor 参与者或待处理邀请
type ParticipantDescriptor struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	IsPending bool    `json:"is_pending"`
}

func describeUser(u *models.User) ParticipantDescriptor {
	return ParticipantDescriptor{ID: u.ID, Email: u.Email, Name: u.Name}
}

func describeInvitation(inv *models.PendingInvitation) ParticipantDescriptor {
	return ParticipantDescriptor{ID: inv.ID, Email: inv.Email, IsPending: true}
}

// ParticipantRef 移除参与者时解析出的目标：已注册用户或待处理邀请
type ParticipantRef struct {
	userID       string
	invitationID string
}

// Registered 指向已注册参与者
func Registered(userID string) ParticipantRef {
	return ParticipantRef{userID: userID}
}

// Pending 指向待处理邀请
func Pending(invitationID string) ParticipantRef {
	return ParticipantRef{invitationID: invitationID}
}

// IsPending 是否指向邀请
func (r ParticipantRef) IsPending() bool {
	return r.invitationID != ""
}

// ID 返回用户ID或邀请ID
func (r ParticipantRef) ID() string {
	if r.IsPending() {
		return r.invitationID
	}
	return r.userID
}

// InvitationNotifier 邀请创建后的通知
type InvitationNotifier interface {
	SendInvitationEmail(toEmail, inviterName, itemName string) error
}

// ParticipantService 账本参与者与邀请管理
type ParticipantService struct {
	db       *gorm.DB
	notifier InvitationNotifier
}

// NewParticipantService 创建参与者服务，notifier 可为 nil
func NewParticipantService(db *gorm.DB, notifier InvitationNotifier) *ParticipantService {
	return &ParticipantService{db: db, notifier: notifier}
}

// List 拥有者在前，其次参与者（按ID去重），最后是待处理邀请
func (s *ParticipantService) List(ctx context.Context, userID, itemID string) ([]ParticipantDescriptor, error) {
	db := s.db.WithContext(ctx)
	item, _, err := requireMember(db, itemID, userID)
	if err != nil {
		return nil, err
	}

	var owner models.User
	if err := db.Where("id = ?", item.OwnerID).First(&owner).Error; err != nil {
		return nil, err
	}

	var participants []models.User
	if err := db.Joins("JOIN item_participants ON item_participants.user_id = users.id").
		Where("item_participants.item_id = ?", item.ID).
		Order("item_participants.added_at").
		Find(&participants).Error; err != nil {
		return nil, err
	}

	var invitations []models.PendingInvitation
	if err := db.Where("item_id = ?", item.ID).Order("invited_at").Find(&invitations).Error; err != nil {
		return nil, err
	}

	seen := map[string]bool{owner.ID: true}
	result := []ParticipantDescriptor{describeUser(&owner)}
	for i := range participants {
		if seen[participants[i].ID] {
			continue
		}
		seen[participants[i].ID] = true
		result = append(result, describeUser(&participants[i]))
	}
	for i := range invitations {
		result = append(result, describeInvitation(&invitations[i]))
	}
	return result, nil
}

// Add 按邮箱添加参与者；邮箱未注册时创建待处理邀请
func (s *ParticipantService) Add(ctx context.Context, caller *models.User, itemID, email string) (*ParticipantDescriptor, error) {
	var (
		desc *ParticipantDescriptor
		item *models.Item
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = requireOwner(tx, itemID, caller.ID)
		if err != nil {
			return err
		}
		if email == caller.Email {
			return invalidOperation("不能邀请自己")
		}

		var target models.User
		err = tx.Where("email = ?", email).First(&target).Error
		switch {
		case err == nil:
			ok, err := isParticipant(tx, item.ID, target.ID)
			if err != nil {
				return err
			}
			if ok || target.ID == item.OwnerID {
				return conflict("该用户已是账本参与者")
			}
			if err := tx.Create(&models.ItemParticipant{ItemID: item.ID, UserID: target.ID}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return conflict("该用户已是账本参与者")
				}
				return err
			}
			d := describeUser(&target)
			desc = &d
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			var count int64
			if err := tx.Model(&models.PendingInvitation{}).
				Where("item_id = ? AND email = ?", item.ID, email).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return conflict("该邮箱已有待处理的邀请")
			}
			inv := &models.PendingInvitation{ItemID: item.ID, Email: email}
			if err := tx.Create(inv).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return conflict("该邮箱已有待处理的邀请")
				}
				return err
			}
			d := describeInvitation(inv)
			desc = &d
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	if desc.IsPending && s.notifier != nil {
		if err := s.notifier.SendInvitationEmail(email, caller.DisplayName(), item.Name); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"item_id": item.ID,
				"email":   email,
			}).Warn("发送邀请邮件失败")
		}
	}
	return desc, nil
}

// resolveRef 先在参与者中查找用户ID，再在本账本邀请中查找邀请ID
func resolveRef(tx *gorm.DB, itemID, pid string) (ParticipantRef, error) {
	ok, err := isParticipant(tx, itemID, pid)
	if err != nil {
		return ParticipantRef{}, err
	}
	if ok {
		return Registered(pid), nil
	}

	var count int64
	if err := tx.Model(&models.PendingInvitation{}).
		Where("id = ? AND item_id = ?", pid, itemID).
		Count(&count).Error; err != nil {
		return ParticipantRef{}, err
	}
	if count > 0 {
		return Pending(pid), nil
	}
	return ParticipantRef{}, notFound("参与者或邀请不存在")
}

// Remove 移除参与者或撤销邀请，仅拥有者
func (s *ParticipantService) Remove(ctx context.Context, userID, itemID, pid string) (ParticipantRef, error) {
	var ref ParticipantRef
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := requireOwner(tx, itemID, userID)
		if err != nil {
			return err
		}
		ref, err = resolveRef(tx, item.ID, pid)
		if err != nil {
			return err
		}
		if ref.IsPending() {
			return tx.Where("id = ? AND item_id = ?", ref.ID(), item.ID).
				Delete(&models.PendingInvitation{}).Error
		}
		return tx.Where("item_id = ? AND user_id = ?", item.ID, ref.ID()).
			Delete(&models.ItemParticipant{}).Error
	})
	return ref, err
}
