package api

import (
	"expensehub/database"
	"expensehub/middleware"
	"expensehub/service"

	"github.com/gin-gonic/gin"
)

// ItemHandler 账本处理器
type ItemHandler struct {
	items   *service.ItemService
	summary *service.SummaryService
}

// NewItemHandler 创建账本处理器
func NewItemHandler() *ItemHandler {
	items := service.NewItemService(database.DB)
	return &ItemHandler{
		items: items,
		summary: service.NewSummaryService(
			items,
			service.NewParticipantService(database.DB, nil),
			service.NewExpenseService(database.DB),
		),
	}
}

// CreateItemRequest 创建账本请求
type CreateItemRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Viaje a Cusco"`
	ItemType string `json:"item_type" binding:"omitempty,oneof=personal shared" example:"shared"`
}

// UpdateItemRequest 更新账本请求，字段均可选
type UpdateItemRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=100"`
	ItemType   *string `json:"item_type" binding:"omitempty,oneof=personal shared"`
	IsArchived *bool   `json:"is_archived"`
}

// List 获取账本列表
// @Summary 账本列表
// @Description 返回当前用户拥有或参与的账本
// @Tags 账本
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.ItemView} "获取成功"
// @Router /api/v1/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.items.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err, "查询账本失败")
		return
	}
	Success(c, items)
}

// Create 创建账本
// @Summary 创建账本
// @Tags 账本
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateItemRequest true "账本信息"
// @Success 201 {object} Response{data=models.Item} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.items.Create(c.Request.Context(), middleware.GetCurrentUserID(c), service.CreateItemInput{
		Name:     req.Name,
		ItemType: req.ItemType,
	})
	if err != nil {
		RespondError(c, err, "创建账本失败")
		return
	}
	Created(c, item)
}

// Get 获取账本
// @Summary 获取账本详情
// @Tags 账本
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Success 200 {object} Response{data=models.Item} "获取成功"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.items.Get(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err, "查询账本失败")
		return
	}
	Success(c, item)
}

// Update 更新账本
// @Summary 更新账本
// @Description 仅修改 is_archived 时参与者也可操作，其余字段仅拥有者
// @Tags 账本
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Param request body UpdateItemRequest true "更新内容"
// @Success 200 {object} Response{data=models.Item} "更新成功"
// @Failure 403 {object} Response "无权操作"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item, err := h.items.Update(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), service.UpdateItemInput{
		Name:       req.Name,
		ItemType:   req.ItemType,
		IsArchived: req.IsArchived,
	})
	if err != nil {
		RespondError(c, err, "更新账本失败")
		return
	}
	Success(c, item)
}

// Delete 删除账本
// @Summary 删除账本
// @Description 同时删除账本下的消费、预算、参与关系与邀请，仅拥有者
// @Tags 账本
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Success 204 "删除成功"
// @Failure 403 {object} Response "无权操作"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.items.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id")); err != nil {
		RespondError(c, err, "删除账本失败")
		return
	}
	NoContent(c)
}

// Summary 账本汇总
// @Summary 账本汇总
// @Description 按币种统计合计与个人份额，以及与其他成员的往来余额
// @Tags 账本
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Success 200 {object} Response{data=service.ItemSummary} "获取成功"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id}/summary [get]
func (h *ItemHandler) Summary(c *gin.Context) {
	summary, err := h.summary.Summary(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err, "统计失败")
		return
	}
	Success(c, summary)
}
