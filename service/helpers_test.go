package service

import (
	"context"
	"path/filepath"
	"testing"

	"expensehub/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 基于临时 SQLite 文件的数据库，已完成迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// createUser 直接写入用户，使用最低 bcrypt 代价加快测试
func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, Password: string(digest)}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createItem(t *testing.T, db *gorm.DB, owner *models.User, itemType string) *models.Item {
	t.Helper()
	item, err := NewItemService(db).Create(context.Background(), owner.ID, CreateItemInput{
		Name:     "Casa",
		ItemType: itemType,
	})
	require.NoError(t, err)
	return item
}

func addParticipant(t *testing.T, db *gorm.DB, item *models.Item, user *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.ItemParticipant{ItemID: item.ID, UserID: user.ID}).Error)
}

func strPtr(s string) *string { return &s }
