package api

import (
	"expensehub/database"
	"expensehub/middleware"
	"expensehub/service"

	"github.com/gin-gonic/gin"
)

// BudgetHandler 个人预算处理器
type BudgetHandler struct {
	budgets *service.BudgetService
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{budgets: service.NewBudgetService(database.DB)}
}

// UpdateBudgetRequest 设置预算请求，金额与币种同时设置
type UpdateBudgetRequest struct {
	Budget   *float64 `json:"budget" binding:"required,gte=0" example:"500"`
	Currency string   `json:"currency" binding:"required,max=20" example:"soles"`
}

// Get 获取个人预算
// @Summary 获取个人预算
// @Description 首次读取时以 0 和默认币种创建
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Success 200 {object} Response{data=models.UserItemBudget} "获取成功"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id}/budget [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	budget, err := h.budgets.GetOrCreate(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err, "查询预算失败")
		return
	}
	Success(c, budget)
}

// Update 设置个人预算
// @Summary 设置个人预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Param request body UpdateBudgetRequest true "预算"
// @Success 200 {object} Response{data=models.UserItemBudget} "设置成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权访问"
// @Router /api/v1/items/{id}/budget [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	budget, err := h.budgets.Update(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), *req.Budget, req.Currency)
	if err != nil {
		RespondError(c, err, "设置预算失败")
		return
	}
	Success(c, budget)
}
