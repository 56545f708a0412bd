package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"expensehub/config"
	"expensehub/database"
	"expensehub/models"
	"expensehub/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	jwtSecret []byte
	jwtExpire = 24 * time.Hour
)

// Claims JWT 载荷，subject 为用户邮箱
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// InitJWT 初始化 JWT 密钥与有效期
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
	if cfg.JWT.ExpireTime > 0 {
		jwtExpire = cfg.JWT.ExpireTime
	}
}

// TokenTTL 令牌有效期
func TokenTTL() time.Duration {
	return jwtExpire
}

// GenerateToken 签发 HS256 令牌
func GenerateToken(userID, email string, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("JWT 密钥未初始化")
	}
	if ttl <= 0 {
		ttl = jwtExpire
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "expensehub",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken 校验签名与有效期并返回载荷
func ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token 为空")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Email == "" {
		return nil, errors.New("无效的 token")
	}
	return claims, nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
	c.Abort()
}

// JWTAuth 校验 Bearer 令牌，并按令牌中的邮箱解析当前用户
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "请先登录")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "认证格式错误")
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "登录已过期或令牌无效")
			return
		}

		user, err := service.NewIdentityService(database.DB).Resolve(c.Request.Context(), claims.Email)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				logrus.WithError(err).Error("解析当前用户失败")
			}
			abortUnauthorized(c, "用户不存在或已被删除")
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// GetCurrentUserID 获取当前用户ID
func GetCurrentUserID(c *gin.Context) string {
	return c.GetString("userID")
}

// GetCurrentUser 获取当前用户
func GetCurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
