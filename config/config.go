package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Log      LogConfig      `mapstructure:"log"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	BaseURL     string   `mapstructure:"base_url"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig 数据库配置
// Driver 可选 mysql / postgres / sqlite，sqlite 使用 Path 作为数据库文件
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text / json
}

// LedgerConfig 账本业务配置
type LedgerConfig struct {
	DefaultCurrency string `mapstructure:"default_currency"`
	MaxTemplates    int    `mapstructure:"max_templates"`
}

const (
	defaultCurrency     = "soles"
	defaultMaxTemplates = 8
)

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}
	logrus.Debug("已加载内置默认配置")

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			logrus.WithError(err).Warnf("无法读取指定配置文件 %s", configPath)
		} else {
			logrus.Infof("已合并外部配置文件: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/expensehub")
		externalViper.AddConfigPath("$HOME/.expensehub")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				logrus.WithError(err).Warn("合并外部配置失败")
			} else {
				logrus.Infof("已合并外部配置文件: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 EXPENSEHUB_JWT_SECRET
	v.SetEnvPrefix("EXPENSEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyDefaults()

	GlobalConfig = &cfg

	return &cfg, nil
}

// applyDefaults 补齐缺省值
func (c *Config) applyDefaults() {
	if c.JWT.ExpireHours <= 0 {
		c.JWT.ExpireHours = 24
	}
	c.JWT.ExpireTime = time.Duration(c.JWT.ExpireHours) * time.Hour

	if c.Ledger.DefaultCurrency == "" {
		c.Ledger.DefaultCurrency = defaultCurrency
	}
	if c.Ledger.MaxTemplates <= 0 {
		c.Ledger.MaxTemplates = defaultMaxTemplates
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
}

// DefaultCurrency 返回默认币种，配置未加载时使用内置值
func DefaultCurrency() string {
	if GlobalConfig == nil || GlobalConfig.Ledger.DefaultCurrency == "" {
		return defaultCurrency
	}
	return GlobalConfig.Ledger.DefaultCurrency
}

// MaxTemplates 返回每个用户的模板上限
func MaxTemplates() int {
	if GlobalConfig == nil || GlobalConfig.Ledger.MaxTemplates <= 0 {
		return defaultMaxTemplates
	}
	return GlobalConfig.Ledger.MaxTemplates
}

// SafeErrorMessage release 模式下不向客户端暴露内部错误详情
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	logrus.WithFields(logrus.Fields{
		"port":     GlobalConfig.Server.Port,
		"mode":     GlobalConfig.Server.Mode,
		"driver":   GlobalConfig.Database.Driver,
		"database": GlobalConfig.Database.DBName,
		"email":    GlobalConfig.Email.Enabled,
		"currency": GlobalConfig.Ledger.DefaultCurrency,
	}).Info("当前配置")
}
