package api

import (
	"expensehub/database"
	"expensehub/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	identity *service.IdentityService
}

// NewUserHandler 创建用户处理器
func NewUserHandler() *UserHandler {
	return &UserHandler{identity: service.NewIdentityService(database.DB)}
}

// List 获取全部用户
// @Summary 用户列表
// @Description 用于选择付款人、分摊对象等
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.identity.ListUsers(c.Request.Context())
	if err != nil {
		RespondError(c, err, "查询用户失败")
		return
	}
	Success(c, users)
}
