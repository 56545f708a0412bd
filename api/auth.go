package api

import (
	"expensehub/config"
	"expensehub/database"
	"expensehub/middleware"
	"expensehub/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg      *config.Config
	identity *service.IdentityService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		identity: service.NewIdentityService(database.DB),
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255" example:"ana@example.com"`
	Password string  `json:"password" binding:"required,min=6,max=72" example:"password123"`
	Name     *string `json:"name" binding:"omitempty,max=100" example:"Ana"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse 登录响应
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户。该邮箱收到的待处理邀请会自动转为账本参与关系
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "参数错误或邮箱已注册"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.identity.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		RespondError(c, err, "注册失败")
		return
	}

	Created(c, user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 邮箱密码登录获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=TokenResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.identity.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err, "登录失败")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, TokenResponse{
		Token:     token,
		TokenType: "bearer",
	})
}

// Me 获取当前用户
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		Unauthorized(c, "请先登录")
		return
	}
	Success(c, user)
}
