package api

import (
	"expensehub/database"
	"expensehub/middleware"
	"expensehub/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler() *ExpenseHandler {
	return &ExpenseHandler{expenses: service.NewExpenseService(database.DB)}
}

// CreateExpenseRequest 创建消费请求
type CreateExpenseRequest struct {
	Amount               float64  `json:"amount" binding:"required" example:"25.5"`
	Description          string   `json:"description" binding:"max=255" example:"Almuerzo"`
	PaymentMethod        string   `json:"payment_method" binding:"required,oneof=bank cash" example:"cash"`
	Currency             string   `json:"currency" binding:"omitempty,max=20" example:"soles"`
	PaidBy               *string  `json:"paid_by"`
	SplitType            string   `json:"split_type" binding:"omitempty,oneof=divided assigned selected" example:"divided"`
	AssignedTo           *string  `json:"assigned_to"`
	SelectedParticipants []string `json:"selected_participants"`
	Date                 *string  `json:"date" example:"2024-03-01T10:00"`
}

// UpdateExpenseRequest 更新消费请求，字段均可选
type UpdateExpenseRequest struct {
	Amount               *float64  `json:"amount"`
	Description          *string   `json:"description" binding:"omitempty,max=255"`
	PaymentMethod        *string   `json:"payment_method" binding:"omitempty,oneof=bank cash"`
	Currency             *string   `json:"currency" binding:"omitempty,max=20"`
	PaidBy               *string   `json:"paid_by"`
	SplitType            *string   `json:"split_type" binding:"omitempty,oneof=divided assigned selected"`
	AssignedTo           *string   `json:"assigned_to"`
	SelectedParticipants *[]string `json:"selected_participants"`
	Date                 *string   `json:"date"`
}

// List 消费列表
// @Summary 消费列表
// @Tags 消费
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Success 200 {object} Response{data=[]models.Expense} "获取成功"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id}/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.expenses.List(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err, "查询消费记录失败")
		return
	}
	Success(c, expenses)
}

// Create 新增消费
// @Summary 新增消费
// @Description date 支持带时区的 ISO 时间、无时区时间或 datetime-local 格式，无法解析时使用当前时间
// @Tags 消费
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Param request body CreateExpenseRequest true "消费信息"
// @Success 201 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权访问"
// @Router /api/v1/items/{id}/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), service.CreateExpenseInput{
		Amount:               req.Amount,
		Description:          req.Description,
		PaymentMethod:        req.PaymentMethod,
		Currency:             req.Currency,
		PaidBy:               req.PaidBy,
		SplitType:            req.SplitType,
		AssignedTo:           req.AssignedTo,
		SelectedParticipants: req.SelectedParticipants,
		Date:                 req.Date,
	})
	if err != nil {
		RespondError(c, err, "创建消费记录失败")
		return
	}
	Created(c, expense)
}

// Update 更新消费
// @Summary 更新消费
// @Description 仅修改请求中出现的字段
// @Tags 消费
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Param eid path string true "消费ID"
// @Param request body UpdateExpenseRequest true "更新内容"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 404 {object} Response "消费记录不存在"
// @Router /api/v1/items/{id}/expenses/{eid} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), c.Param("eid"), service.UpdateExpenseInput{
		Amount:               req.Amount,
		Description:          req.Description,
		PaymentMethod:        req.PaymentMethod,
		Currency:             req.Currency,
		PaidBy:               req.PaidBy,
		SplitType:            req.SplitType,
		AssignedTo:           req.AssignedTo,
		SelectedParticipants: req.SelectedParticipants,
		Date:                 req.Date,
	})
	if err != nil {
		RespondError(c, err, "更新消费记录失败")
		return
	}
	Success(c, expense)
}

// Delete 删除消费
// @Summary 删除消费
// @Tags 消费
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Param eid path string true "消费ID"
// @Success 204 "删除成功"
// @Failure 404 {object} Response "消费记录不存在"
// @Router /api/v1/items/{id}/expenses/{eid} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), c.Param("eid")); err != nil {
		RespondError(c, err, "删除消费记录失败")
		return
	}
	NoContent(c)
}
