package api

import (
	"encoding/json"
	"testing"

	"expensehub/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateRouter(user *models.User) *gin.Engine {
	h := NewTemplateHandler()
	r := gin.New()
	r.Use(asUser(user))
	r.GET("/expense-templates", h.List)
	r.POST("/expense-templates", h.Create)
	r.POST("/expense-templates/reorder", h.Reorder)
	r.PUT("/expense-templates/:id", h.Update)
	r.DELETE("/expense-templates/:id", h.Delete)
	return r
}

func TestTemplateHandler(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	bob := seedUser(t, db, "bob@example.com")
	router := templateRouter(ana)

	// 首次读取写入默认模板
	w := doRequest(router, "GET", "/expense-templates", "")
	assert.Equal(t, 200, w.Code)
	var templates []models.ExpenseTemplate
	decodeData(t, w, &templates)
	require.Len(t, templates, len(models.DefaultTemplateNames()))
	assert.Equal(t, models.DefaultTemplateNames()[0], templates[0].Name)

	w = doRequest(router, "POST", "/expense-templates", `{"name":"Cafe"}`)
	assert.Equal(t, 201, w.Code)
	var created models.ExpenseTemplate
	decodeData(t, w, &created)
	assert.Equal(t, len(templates), created.Position)

	w = doRequest(router, "POST", "/expense-templates", `{"name":"Taxi"}`)
	assert.Equal(t, 201, w.Code)

	// 达到上限
	w = doRequest(router, "POST", "/expense-templates", `{"name":"Extra"}`)
	assert.Equal(t, 400, w.Code)
	resp := decodeData(t, w, nil)
	assert.Equal(t, "模板数量已达上限", resp.Message)

	w = doRequest(router, "POST", "/expense-templates", `{}`)
	assert.Equal(t, 400, w.Code)

	w = doRequest(router, "PUT", "/expense-templates/"+created.ID, `{"name":"Cafe de la tarde"}`)
	assert.Equal(t, 200, w.Code)
	var updated models.ExpenseTemplate
	decodeData(t, w, &updated)
	assert.Equal(t, "Cafe de la tarde", updated.Name)

	// 其他用户不可见
	w = doRequest(templateRouter(bob), "PUT", "/expense-templates/"+created.ID, `{"name":"x"}`)
	assert.Equal(t, 404, w.Code)
	w = doRequest(templateRouter(bob), "DELETE", "/expense-templates/"+created.ID, "")
	assert.Equal(t, 404, w.Code)

	w = doRequest(router, "DELETE", "/expense-templates/"+created.ID, "")
	assert.Equal(t, 204, w.Code)
	w = doRequest(router, "DELETE", "/expense-templates/"+created.ID, "")
	assert.Equal(t, 404, w.Code)
}

func TestTemplateHandler_Reorder(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	bob := seedUser(t, db, "bob@example.com")

	w := doRequest(templateRouter(ana), "GET", "/expense-templates", "")
	var templates []models.ExpenseTemplate
	decodeData(t, w, &templates)
	require.GreaterOrEqual(t, len(templates), 2)

	w = doRequest(templateRouter(bob), "GET", "/expense-templates", "")
	var foreign []models.ExpenseTemplate
	decodeData(t, w, &foreign)

	// 倒序排列，并混入其他用户的模板ID
	ids := make([]string, 0, len(templates)+1)
	for i := len(templates) - 1; i >= 0; i-- {
		ids = append(ids, templates[i].ID)
	}
	ids = append(ids, foreign[0].ID)
	body, err := json.Marshal(ids)
	require.NoError(t, err)

	w = doRequest(templateRouter(ana), "POST", "/expense-templates/reorder", string(body))
	assert.Equal(t, 200, w.Code)
	var reordered []models.ExpenseTemplate
	decodeData(t, w, &reordered)
	require.Len(t, reordered, len(templates))
	assert.Equal(t, templates[len(templates)-1].ID, reordered[0].ID)
	assert.Equal(t, templates[0].ID, reordered[len(reordered)-1].ID)

	// 其他用户的模板位置不受影响
	var untouched models.ExpenseTemplate
	require.NoError(t, db.Where("id = ?", foreign[0].ID).First(&untouched).Error)
	assert.Equal(t, foreign[0].Position, untouched.Position)

	w = doRequest(templateRouter(ana), "POST", "/expense-templates/reorder", `{"ids":[]}`)
	assert.Equal(t, 400, w.Code)
}
