package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"expensehub/config"
	"expensehub/models"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	db, err := Open(cfg.Database, cfg.Server.Mode)
	if err != nil {
		return err
	}

	// 自动迁移数据库表
	if err := Migrate(db); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	DB = db
	logrus.WithField("driver", cfg.Database.Driver).Info("数据库初始化成功")
	return nil
}

// Open 按驱动类型打开数据库连接
func Open(cfg config.DatabaseConfig, mode string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         newGormLogger(mode),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "mysql":
		// 构建 MySQL DSN 连接字符串
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
		)
		db, err = gorm.Open(mysql.Open(dsn), gormCfg)
	case "postgres":
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName, sslMode)
		sqlDB, openErr := sql.Open("postgres", dsn)
		if openErr != nil {
			return nil, fmt.Errorf("连接数据库失败: %w", openErr)
		}
		db, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(cfg.Path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), gormCfg)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" || cfg.Driver == "" {
		// SQLite 单写者，串行化连接避免 database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
		sqlDB.SetMaxOpenConns(100) // 最大打开连接数
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Migrate 自动迁移全部业务表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// newGormLogger SQL 日志统一输出到 logrus
func newGormLogger(mode string) logger.Interface {
	level := logger.Warn
	if mode == "debug" {
		level = logger.Info
	}
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
