package service

import (
	"testing"

	"expensehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResolvePendingInvitations_Idempotent(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	user := createUser(t, db, "new@example.com")
	item := createItem(t, db, owner, models.ItemTypeShared)

	// 用户已是参与者，同时仍有一条遗留邀请
	addParticipant(t, db, item, user)
	require.NoError(t, db.Create(&models.PendingInvitation{ItemID: item.ID, Email: user.Email}).Error)

	resolver := NewMembershipResolver()
	var created int
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		n, err := resolver.ResolvePendingInvitations(tx, user)
		created = n
		return err
	}))
	assert.Equal(t, 0, created)

	var links int64
	require.NoError(t, db.Model(&models.ItemParticipant{}).Where("item_id = ?", item.ID).Count(&links).Error)
	assert.Equal(t, int64(1), links)

	var pending int64
	require.NoError(t, db.Model(&models.PendingInvitation{}).Count(&pending).Error)
	assert.Equal(t, int64(0), pending)

	// 重放不产生任何变化
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		n, err := resolver.ResolvePendingInvitations(tx, user)
		created = n
		return err
	}))
	assert.Equal(t, 0, created)
}

func TestResolvePendingInvitations_SkipsOwnedItems(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "self@example.com")
	item := createItem(t, db, user, models.ItemTypeShared)
	require.NoError(t, db.Create(&models.PendingInvitation{ItemID: item.ID, Email: user.Email}).Error)

	var created int
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		n, err := NewMembershipResolver().ResolvePendingInvitations(tx, user)
		created = n
		return err
	}))
	assert.Equal(t, 0, created)

	var links int64
	require.NoError(t, db.Model(&models.ItemParticipant{}).Count(&links).Error)
	assert.Equal(t, int64(0), links)
}
