package logger

import (
	"os"
	"strings"

	"expensehub/config"

	"github.com/sirupsen/logrus"
)

// Init 根据配置初始化全局 logrus 日志
func Init(cfg config.LogConfig) {
	logrus.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
