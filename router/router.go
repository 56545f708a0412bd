package router

import (
	"time"

	"expensehub/api"
	"expensehub/config"
	_ "expensehub/docs"
	"expensehub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 注册/登录限流：每 IP 每分钟 10 次
const (
	authMaxAttempts = 10
	authWindow      = time.Minute
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	// CORS 中间件
	r.Use(cors.New(corsConfig(cfg)))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			limited := auth.Group("")
			limited.Use(middleware.AuthRateLimit(authMaxAttempts, authWindow))
			limited.POST("/register", authHandler.Register)
			limited.POST("/login", authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/me", authHandler.Me)

			userHandler := api.NewUserHandler()
			authorized.GET("/users", userHandler.List)

			itemHandler := api.NewItemHandler()
			participantHandler := api.NewParticipantHandler(cfg)
			budgetHandler := api.NewBudgetHandler()
			expenseHandler := api.NewExpenseHandler()
			exportHandler := api.NewExportHandler()
			items := authorized.Group("/items")
			{
				items.GET("", itemHandler.List)
				items.POST("", itemHandler.Create)
				items.GET("/:id", itemHandler.Get)
				items.PUT("/:id", itemHandler.Update)
				items.DELETE("/:id", itemHandler.Delete)
				items.GET("/:id/summary", itemHandler.Summary)

				items.GET("/:id/participants", participantHandler.List)
				items.POST("/:id/participants", participantHandler.Add)
				items.DELETE("/:id/participants/:pid", participantHandler.Remove)

				items.GET("/:id/budget", budgetHandler.Get)
				items.PUT("/:id/budget", budgetHandler.Update)

				items.GET("/:id/expenses", expenseHandler.List)
				items.POST("/:id/expenses", expenseHandler.Create)
				items.GET("/:id/expenses/export", exportHandler.Export)
				items.PUT("/:id/expenses/:eid", expenseHandler.Update)
				items.DELETE("/:id/expenses/:eid", expenseHandler.Delete)
			}

			templateHandler := api.NewTemplateHandler()
			templates := authorized.Group("/expense-templates")
			{
				templates.GET("", templateHandler.List)
				templates.POST("", templateHandler.Create)
				templates.POST("/reorder", templateHandler.Reorder)
				templates.PUT("/:id", templateHandler.Update)
				templates.DELETE("/:id", templateHandler.Delete)
			}
		}
	}

	return r
}

// corsConfig 跨域配置，未配置来源时允许所有来源
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = cfg.Server.CORSOrigins
	}
	return c
}
