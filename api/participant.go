package api

import (
	"expensehub/config"
	"expensehub/database"
	"expensehub/middleware"
	"expensehub/service"

	"github.com/gin-gonic/gin"
)

// ParticipantHandler 账本参与者处理器
type ParticipantHandler struct {
	participants *service.ParticipantService
}

// NewParticipantHandler 创建参与者处理器，启用邮件时发送邀请邮件
func NewParticipantHandler(cfg *config.Config) *ParticipantHandler {
	var notifier service.InvitationNotifier
	if cfg != nil && cfg.Email.Enabled {
		notifier = service.NewEmailService(&cfg.Email, cfg.Server.BaseURL)
	}
	return &ParticipantHandler{
		participants: service.NewParticipantService(database.DB, notifier),
	}
}

// AddParticipantRequest 添加参与者请求
type AddParticipantRequest struct {
	Email string `json:"email" binding:"required,email" example:"bob@example.com"`
}

// List 参与者列表
// @Summary 参与者列表
// @Description 拥有者在前，其次参与者，最后是待处理邀请（is_pending=true）
// @Tags 参与者
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Success 200 {object} Response{data=[]service.ParticipantDescriptor} "获取成功"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id}/participants [get]
func (h *ParticipantHandler) List(c *gin.Context) {
	list, err := h.participants.List(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err, "查询参与者失败")
		return
	}
	Success(c, list)
}

// Add 添加参与者
// @Summary 添加参与者
// @Description 邮箱已注册则直接加入，否则创建待处理邀请，注册后自动加入
// @Tags 参与者
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Param request body AddParticipantRequest true "参与者邮箱"
// @Success 201 {object} Response{data=service.ParticipantDescriptor} "添加成功"
// @Failure 400 {object} Response "不能邀请自己或已存在"
// @Failure 403 {object} Response "仅拥有者可操作"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id}/participants [post]
func (h *ParticipantHandler) Add(c *gin.Context) {
	var req AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	caller := middleware.GetCurrentUser(c)
	if caller == nil {
		Unauthorized(c, "请先登录")
		return
	}

	desc, err := h.participants.Add(c.Request.Context(), caller, c.Param("id"), req.Email)
	if err != nil {
		RespondError(c, err, "添加参与者失败")
		return
	}
	Created(c, desc)
}

// Remove 移除参与者或撤销邀请
// @Summary 移除参与者
// @Description pid 可以是参与者用户ID，也可以是待处理邀请ID
// @Tags 参与者
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Param pid path string true "用户ID或邀请ID"
// @Success 204 "移除成功"
// @Failure 403 {object} Response "仅拥有者可操作"
// @Failure 404 {object} Response "参与者或邀请不存在"
// @Router /api/v1/items/{id}/participants/{pid} [delete]
func (h *ParticipantHandler) Remove(c *gin.Context) {
	if _, err := h.participants.Remove(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), c.Param("pid")); err != nil {
		RespondError(c, err, "移除参与者失败")
		return
	}
	NoContent(c)
}
