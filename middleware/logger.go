package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger 使用 logrus 记录每个请求
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if userID := GetCurrentUserID(c); userID != "" {
			entry = entry.WithField("user_id", userID)
		}
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Error("请求处理出错")
			return
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("请求完成")
		case status >= 400:
			entry.Warn("请求完成")
		default:
			entry.Info("请求完成")
		}
	}
}
