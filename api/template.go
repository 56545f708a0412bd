package api

import (
	"expensehub/database"
	"expensehub/middleware"
	"expensehub/service"

	"github.com/gin-gonic/gin"
)

// TemplateHandler 消费模板处理器
type TemplateHandler struct {
	templates *service.TemplateService
}

// NewTemplateHandler 创建模板处理器
func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{templates: service.NewTemplateService(database.DB)}
}

// CreateTemplateRequest 创建模板请求
type CreateTemplateRequest struct {
	Name     string `json:"name" binding:"required,max=50" example:"Cafe"`
	Position *int   `json:"position" binding:"omitempty,gte=0"`
}

// UpdateTemplateRequest 更新模板请求
type UpdateTemplateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=50"`
	Position *int    `json:"position" binding:"omitempty,gte=0"`
}

// List 模板列表
// @Summary 模板列表
// @Description 按位置排序；新用户首次读取时写入默认模板
// @Tags 模板
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.ExpenseTemplate} "获取成功"
// @Router /api/v1/expense-templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err, "查询模板失败")
		return
	}
	Success(c, templates)
}

// Create 创建模板
// @Summary 创建模板
// @Tags 模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTemplateRequest true "模板信息"
// @Success 201 {object} Response{data=models.ExpenseTemplate} "创建成功"
// @Failure 400 {object} Response "参数错误或数量已达上限"
// @Router /api/v1/expense-templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	template, err := h.templates.Create(c.Request.Context(), middleware.GetCurrentUserID(c), service.CreateTemplateInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		RespondError(c, err, "创建模板失败")
		return
	}
	Created(c, template)
}

// Update 更新模板
// @Summary 更新模板
// @Tags 模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Param request body UpdateTemplateRequest true "更新内容"
// @Success 200 {object} Response{data=models.ExpenseTemplate} "更新成功"
// @Failure 404 {object} Response "模板不存在"
// @Router /api/v1/expense-templates/{id} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	template, err := h.templates.Update(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), service.UpdateTemplateInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		RespondError(c, err, "更新模板失败")
		return
	}
	Success(c, template)
}

// Delete 删除模板
// @Summary 删除模板
// @Tags 模板
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Success 204 "删除成功"
// @Failure 404 {object} Response "模板不存在"
// @Router /api/v1/expense-templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id")); err != nil {
		RespondError(c, err, "删除模板失败")
		return
	}
	NoContent(c)
}

// Reorder 模板排序
// @Summary 模板排序
// @Description 请求体为模板ID数组，位置即数组下标；不属于当前用户的ID会被忽略
// @Tags 模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []string true "排序后的模板ID"
// @Success 200 {object} Response{data=[]models.ExpenseTemplate} "排序成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/expense-templates/reorder [post]
func (h *TemplateHandler) Reorder(c *gin.Context) {
	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	templates, err := h.templates.Reorder(c.Request.Context(), middleware.GetCurrentUserID(c), ids)
	if err != nil {
		RespondError(c, err, "排序失败")
		return
	}
	Success(c, templates)
}
