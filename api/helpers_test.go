package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"expensehub/config"
	"expensehub/database"
	"expensehub/middleware"
	"expensehub/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

// setupSQLiteDB 替换全局数据库为临时 SQLite，并完成迁移
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "api.db"),
	}, "test")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	old := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = old
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func initTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Ledger: config.LedgerConfig{DefaultCurrency: "soles", MaxTemplates: 8},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	t.Cleanup(func() { config.GlobalConfig = nil })
	return cfg
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, Password: string(digest)}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedItem(t *testing.T, db *gorm.DB, owner *models.User, itemType string) *models.Item {
	t.Helper()
	item := &models.Item{Name: "Depa Miraflores", ItemType: itemType, OwnerID: owner.ID}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedParticipant(t *testing.T, db *gorm.DB, item *models.Item, user *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.ItemParticipant{ItemID: item.ID, UserID: user.ID}).Error)
}

// asUser 模拟 JWTAuth 写入的上下文
func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData 解析响应并将 data 字段解码到 out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) Response {
	t.Helper()
	var raw struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if out != nil {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return Response{Code: raw.Code, Message: raw.Message}
}
