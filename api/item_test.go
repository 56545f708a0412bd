package api

import (
	"testing"

	"expensehub/models"
	"expensehub/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRouter(user *models.User) *gin.Engine {
	h := NewItemHandler()
	r := gin.New()
	r.Use(asUser(user))
	r.GET("/items", h.List)
	r.POST("/items", h.Create)
	r.GET("/items/:id", h.Get)
	r.PUT("/items/:id", h.Update)
	r.DELETE("/items/:id", h.Delete)
	r.GET("/items/:id/summary", h.Summary)
	return r
}

func TestItemHandler_CreateAndList(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	bob := seedUser(t, db, "bob@example.com")

	router := itemRouter(ana)
	w := doRequest(router, "POST", "/items", `{"name":"Viaje a Cusco","item_type":"shared"}`)
	assert.Equal(t, 201, w.Code)
	var created models.Item
	decodeData(t, w, &created)
	assert.Equal(t, ana.ID, created.OwnerID)
	assert.Equal(t, models.ItemTypeShared, created.ItemType)

	// 未指定类型时默认为 personal
	w = doRequest(router, "POST", "/items", `{"name":"Gastos propios"}`)
	assert.Equal(t, 201, w.Code)
	var personal models.Item
	decodeData(t, w, &personal)
	assert.Equal(t, models.ItemTypePersonal, personal.ItemType)

	w = doRequest(router, "POST", "/items", `{"name":"x","item_type":"group"}`)
	assert.Equal(t, 400, w.Code)

	// 参与者可以在列表中看到共享账本
	seedParticipant(t, db, &created, bob)
	w = doRequest(itemRouter(bob), "GET", "/items", "")
	assert.Equal(t, 200, w.Code)
	var views []service.ItemView
	decodeData(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, created.ID, views[0].ID)
	assert.Equal(t, "ana@example.com", views[0].OwnerEmail)
}

func TestItemHandler_Get_StatusMapping(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	eve := seedUser(t, db, "eve@example.com")
	item := seedItem(t, db, ana, models.ItemTypeShared)

	w := doRequest(itemRouter(ana), "GET", "/items/"+item.ID, "")
	assert.Equal(t, 200, w.Code)

	w = doRequest(itemRouter(eve), "GET", "/items/"+item.ID, "")
	assert.Equal(t, 403, w.Code)

	w = doRequest(itemRouter(ana), "GET", "/items/does-not-exist", "")
	assert.Equal(t, 404, w.Code)
	resp := decodeData(t, w, nil)
	assert.Equal(t, "账本不存在", resp.Message)
}

func TestItemHandler_Update(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	bob := seedUser(t, db, "bob@example.com")
	item := seedItem(t, db, ana, models.ItemTypeShared)
	seedParticipant(t, db, item, bob)

	// 参与者只能归档
	w := doRequest(itemRouter(bob), "PUT", "/items/"+item.ID, `{"is_archived":true}`)
	assert.Equal(t, 200, w.Code)
	var updated models.Item
	decodeData(t, w, &updated)
	assert.True(t, updated.IsArchived)

	w = doRequest(itemRouter(bob), "PUT", "/items/"+item.ID, `{"name":"Nuevo"}`)
	assert.Equal(t, 403, w.Code)

	w = doRequest(itemRouter(ana), "PUT", "/items/"+item.ID, `{"name":"Nuevo","is_archived":false}`)
	assert.Equal(t, 200, w.Code)
	decodeData(t, w, &updated)
	assert.Equal(t, "Nuevo", updated.Name)
	assert.False(t, updated.IsArchived)
}

func TestItemHandler_Delete(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	bob := seedUser(t, db, "bob@example.com")
	item := seedItem(t, db, ana, models.ItemTypeShared)
	seedParticipant(t, db, item, bob)
	require.NoError(t, db.Create(&models.Expense{
		ItemID: item.ID, Amount: 10, PaymentMethod: models.PaymentMethodCash,
		Currency: "soles", PaidBy: ana.ID, SplitType: models.SplitTypeDivided,
	}).Error)

	w := doRequest(itemRouter(bob), "DELETE", "/items/"+item.ID, "")
	assert.Equal(t, 403, w.Code)

	w = doRequest(itemRouter(ana), "DELETE", "/items/"+item.ID, "")
	assert.Equal(t, 204, w.Code)
	assert.Empty(t, w.Body.String())

	var count int64
	db.Model(&models.Expense{}).Where("item_id = ?", item.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.ItemParticipant{}).Where("item_id = ?", item.ID).Count(&count)
	assert.Zero(t, count)

	w = doRequest(itemRouter(ana), "GET", "/items/"+item.ID, "")
	assert.Equal(t, 404, w.Code)
}

func TestItemHandler_Summary(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	bob := seedUser(t, db, "bob@example.com")
	item := seedItem(t, db, ana, models.ItemTypeShared)
	seedParticipant(t, db, item, bob)
	require.NoError(t, db.Create(&models.Expense{
		ItemID: item.ID, Amount: 100, PaymentMethod: models.PaymentMethodCash,
		Currency: "soles", PaidBy: ana.ID, SplitType: models.SplitTypeDivided,
	}).Error)

	w := doRequest(itemRouter(bob), "GET", "/items/"+item.ID+"/summary", "")
	assert.Equal(t, 200, w.Code)

	var summary service.ItemSummary
	decodeData(t, w, &summary)
	assert.Equal(t, 2, summary.Members)
	require.Len(t, summary.Totals, 1)
	assert.Equal(t, 100.0, summary.Totals[0].Total)
	assert.Equal(t, 50.0, summary.Totals[0].MyShare)
	require.Len(t, summary.YouOwe, 1)
	assert.Equal(t, ana.ID, summary.YouOwe[0].UserID)
	assert.Equal(t, 50.0, summary.YouOwe[0].Amount)
	assert.Empty(t, summary.OwedToYou)
}
