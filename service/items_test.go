package service

import (
	"context"
	"errors"
	"testing"

	"expensehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemList_OwnedAndShared(t *testing.T) {
	db := newTestDB(t)
	ana := createUser(t, db, "ana@example.com")
	bob := createUser(t, db, "bob@example.com")

	own := createItem(t, db, ana, models.ItemTypePersonal)
	shared := createItem(t, db, bob, models.ItemTypeShared)
	addParticipant(t, db, shared, ana)
	createItem(t, db, bob, models.ItemTypePersonal)

	views, err := NewItemService(db).List(context.Background(), ana.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string]ItemView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.Equal(t, "ana@example.com", byID[own.ID].OwnerEmail)
	assert.Equal(t, "bob@example.com", byID[shared.ID].OwnerEmail)
}

func TestItemCreate_DefaultsToPersonal(t *testing.T) {
	db := newTestDB(t)
	ana := createUser(t, db, "ana@example.com")

	item, err := NewItemService(db).Create(context.Background(), ana.ID, CreateItemInput{Name: "Mes"})
	require.NoError(t, err)
	assert.Equal(t, models.ItemTypePersonal, item.ItemType)
	assert.Equal(t, ana.ID, item.OwnerID)
	assert.False(t, item.IsArchived)
}

func TestItemGet_Access(t *testing.T) {
	db := newTestDB(t)
	svc := NewItemService(db)
	ana := createUser(t, db, "ana@example.com")
	bob := createUser(t, db, "bob@example.com")
	eve := createUser(t, db, "eve@example.com")
	item := createItem(t, db, ana, models.ItemTypeShared)
	addParticipant(t, db, item, bob)

	_, err := svc.Get(context.Background(), ana.ID, item.ID)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), bob.ID, item.ID)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), eve.ID, item.ID)
	assert.True(t, errors.Is(err, ErrForbidden))
	_, err = svc.Get(context.Background(), ana.ID, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestItemUpdate_ArchiveByParticipant(t *testing.T) {
	db := newTestDB(t)
	svc := NewItemService(db)
	ana := createUser(t, db, "ana@example.com")
	bob := createUser(t, db, "bob@example.com")
	item := createItem(t, db, ana, models.ItemTypeShared)
	addParticipant(t, db, item, bob)

	archived := true
	updated, err := svc.Update(context.Background(), bob.ID, item.ID, UpdateItemInput{IsArchived: &archived})
	require.NoError(t, err)
	assert.True(t, updated.IsArchived)

	// 参与者不能修改名称，即使同时带上归档字段
	_, err = svc.Update(context.Background(), bob.ID, item.ID, UpdateItemInput{
		Name:       strPtr("Nuevo"),
		IsArchived: &archived,
	})
	assert.True(t, errors.Is(err, ErrForbidden))

	updated, err = svc.Update(context.Background(), ana.ID, item.ID, UpdateItemInput{Name: strPtr("Nuevo")})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", updated.Name)
	assert.True(t, updated.IsArchived)
}

func TestItemUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)
	ana := createUser(t, db, "ana@example.com")

	_, err := NewItemService(db).Update(context.Background(), ana.ID, "missing", UpdateItemInput{Name: strPtr("x")})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestItemDelete_Cascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ana := createUser(t, db, "ana@example.com")
	bob := createUser(t, db, "bob@example.com")
	item := createItem(t, db, ana, models.ItemTypeShared)
	other := createItem(t, db, ana, models.ItemTypeShared)
	addParticipant(t, db, item, bob)
	require.NoError(t, db.Create(&models.PendingInvitation{ItemID: item.ID, Email: "x@example.com"}).Error)

	expenses := NewExpenseService(db)
	_, err := expenses.Create(ctx, ana.ID, item.ID, CreateExpenseInput{Amount: 10, PaymentMethod: "cash"})
	require.NoError(t, err)
	_, err = expenses.Create(ctx, ana.ID, other.ID, CreateExpenseInput{Amount: 5, PaymentMethod: "cash"})
	require.NoError(t, err)
	_, err = NewBudgetService(db).GetOrCreate(ctx, bob.ID, item.ID)
	require.NoError(t, err)

	svc := NewItemService(db)
	// 参与者不能删除
	assert.True(t, errors.Is(svc.Delete(ctx, bob.ID, item.ID), ErrForbidden))
	require.NoError(t, svc.Delete(ctx, ana.ID, item.ID))

	for _, m := range []interface{}{
		&models.Expense{},
		&models.UserItemBudget{},
		&models.ItemParticipant{},
		&models.PendingInvitation{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Where("item_id = ?", item.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count, "%T should be removed", m)
	}

	var remaining int64
	require.NoError(t, db.Model(&models.Expense{}).Where("item_id = ?", other.ID).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	_, err = svc.Get(ctx, ana.ID, item.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
