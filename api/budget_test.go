package api

import (
	"testing"

	"expensehub/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func budgetRouter(user *models.User) *gin.Engine {
	h := NewBudgetHandler()
	r := gin.New()
	r.Use(asUser(user))
	r.GET("/items/:id/budget", h.Get)
	r.PUT("/items/:id/budget", h.Update)
	return r
}

func TestBudgetHandler(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	bob := seedUser(t, db, "bob@example.com")
	shared := seedItem(t, db, ana, models.ItemTypeShared)
	personal := seedItem(t, db, ana, models.ItemTypePersonal)
	seedParticipant(t, db, shared, bob)
	seedParticipant(t, db, personal, bob)

	// 首次读取时惰性创建
	w := doRequest(budgetRouter(bob), "GET", "/items/"+shared.ID+"/budget", "")
	assert.Equal(t, 200, w.Code)
	var budget models.UserItemBudget
	decodeData(t, w, &budget)
	assert.Equal(t, 0.0, budget.Budget)
	assert.Equal(t, "soles", budget.Currency)
	assert.Equal(t, bob.ID, budget.UserID)

	w = doRequest(budgetRouter(bob), "PUT", "/items/"+shared.ID+"/budget", `{"budget":350.75,"currency":"dolares"}`)
	assert.Equal(t, 200, w.Code)
	decodeData(t, w, &budget)
	assert.Equal(t, 350.75, budget.Budget)
	assert.Equal(t, "dolares", budget.Currency)

	// 每个成员的预算互相独立
	w = doRequest(budgetRouter(ana), "GET", "/items/"+shared.ID+"/budget", "")
	decodeData(t, w, &budget)
	assert.Equal(t, 0.0, budget.Budget)

	// 预算为 0 也是合法值
	w = doRequest(budgetRouter(ana), "PUT", "/items/"+shared.ID+"/budget", `{"budget":0,"currency":"soles"}`)
	assert.Equal(t, 200, w.Code)

	for _, body := range []string{`{"currency":"soles"}`, `{"budget":-1,"currency":"soles"}`, `{"budget":10}`} {
		w = doRequest(budgetRouter(ana), "PUT", "/items/"+shared.ID+"/budget", body)
		assert.Equal(t, 400, w.Code, body)
	}

	// 个人账本的预算只对拥有者开放
	w = doRequest(budgetRouter(bob), "GET", "/items/"+personal.ID+"/budget", "")
	assert.Equal(t, 403, w.Code)
	w = doRequest(budgetRouter(ana), "GET", "/items/"+personal.ID+"/budget", "")
	assert.Equal(t, 200, w.Code)
}
