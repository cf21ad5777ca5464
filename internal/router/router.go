package router

import (
	"github.com/gin-gonic/gin"

	"sudooom.community/internal/config"
	"sudooom.community/internal/handler"
	"sudooom.community/internal/health"
	"sudooom.community/internal/metrics"
	"sudooom.community/internal/middleware"
	"sudooom.community/internal/session"
)

// Handlers 路由依赖的处理器，Health 与 Metrics 可为 nil
type Handlers struct {
	Auth        *handler.AuthHandler
	Post        *handler.PostHandler
	Marketplace *handler.MarketplaceHandler
	Chat        *handler.ChatHandler
	Health      *health.Checker
	Metrics     *metrics.Metrics
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, sessions session.Store, h *Handlers) *gin.Engine {
	// 设置 Gin 模式
	gin.SetMode(cfg.App.Mode)

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
	}
	r.Use(middleware.CORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowCredentials,
	))

	// 运维接口
	if h.Health != nil {
		r.GET("/health", h.Health.Health)
		r.GET("/ready", h.Health.Ready)
	}
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	api := r.Group("")
	api.Use(middleware.Session(sessions, cfg.Session.CookieName))
	{
		// 认证接口（无需登录）
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)
		api.POST("/logout", h.Auth.Logout)

		// 只读接口
		api.GET("/posts", h.Post.List)
		api.GET("/marketplace/items", h.Marketplace.ListItems)

		// 需要登录的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.RequireSession())
		{
			authenticated.POST("/posts", h.Post.Create)
			authenticated.POST("/marketplace/items", h.Marketplace.CreateItem)

			chat := authenticated.Group("/chat")
			{
				chat.POST("/groups", h.Chat.CreateGroup)
				chat.POST("/messages", h.Chat.SendMessage)
			}
		}
	}

	return r
}
