package api

import (
	"errors"
	"net/http"

	"expensehub/config"
	"expensehub/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

// NoContent 204 删除成功，无响应体
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// statusOf 业务错误类别对应的 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrQuotaExceeded),
		errors.Is(err, service.ErrInvalidOperation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RespondError 将服务层错误转换为响应，未知错误记录日志并隐藏细节
func RespondError(c *gin.Context, err error, fallback string) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(fallback)
		InternalError(c, config.SafeErrorMessage(err, fallback))
		return
	}
	Error(c, status, err.Error())
}
