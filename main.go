package main

import (
	"flag"
	"fmt"
	"strings"

	"expensehub/config"
	"expensehub/database"
	"expensehub/logger"
	"expensehub/middleware"
	"expensehub/router"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title ExpenseHub API
// @version 1.0
// @description 个人与共享账本记账 API：账本、参与者邀请、消费分摊、个人预算与消费模板
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "v1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("ExpenseHub", version)
		return
	}

	// .env 仅用于本地开发，不存在时直接使用进程环境变量
	if err := godotenv.Load(); err != nil {
		logrus.Debug("未找到 .env 文件，使用环境变量")
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖 + 环境变量）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logrus.Fatalf("加载配置失败: %v", err)
	}

	logger.Init(cfg.Log)

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		logrus.Infof("命令行指定端口: %s", port)
	}

	config.PrintConfig()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		logrus.Fatalf("数据库初始化失败: %v", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg)

	logrus.WithFields(logrus.Fields{
		"api":     fmt.Sprintf("http://localhost%s/api/v1/", cfg.Server.Port),
		"swagger": fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port),
		"metrics": fmt.Sprintf("http://localhost%s/metrics", cfg.Server.Port),
	}).Info("ExpenseHub 已启动")

	if err := r.Run(cfg.Server.Port); err != nil {
		logrus.Fatalf("服务器启动失败: %v", err)
	}
}
