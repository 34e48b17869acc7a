package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/api/handlers/health"
	"recipe-finder/internal/api/middleware"
	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/session"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

// Dependencies 路由使用的服務
type Dependencies struct {
	Engine   handlers.Dialogue
	Sessions *session.Store
	Catalog  catalog.Gateway
	// Telegram 為 nil 時不註冊 webhook
	Telegram handlers.Sender
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse(common.ErrNotFound, false))
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, deps.Sessions, deps.Catalog)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	api := router.Group("/api/v1")

	// 依來源 IP 限流只用於對話 API；webhook 全部來自 Telegram 的伺服器，不能共用同一個桶
	chatHandlers := []gin.HandlerFunc{}
	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
		chatHandlers = append(chatHandlers, middleware.RateLimit(limiter, cfg.RateLimit.Window))
	}

	chatHandler := handlers.NewChatHandler(deps.Engine, cfg.App.Debug)
	api.POST("/chat/message", append(chatHandlers, chatHandler.HandleMessage)...)

	if deps.Telegram != nil {
		deduper, err := middleware.NewDeduplicator(cfg.DedupWindow, cfg.DedupSize)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize deduplication: %w", err)
		}
		telegramHandler := handlers.NewTelegramHandler(deps.Engine, deps.Telegram)
		api.POST("/telegram/webhook", middleware.Deduplication(deduper), telegramHandler.HandleWebhook)
	}

	common.LogInfo("Router setup completed",
		zap.Bool("telegram_webhook", deps.Telegram != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
