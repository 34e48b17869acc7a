package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe-finder/internal/api"
	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/dialogue"
	"recipe-finder/internal/core/pagination"
	"recipe-finder/internal/core/ranking"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/service"
	"recipe-finder/internal/core/session"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("catalog_driver", cfg.Catalog.Driver),
		zap.String("ranking_driver", cfg.Ranking.Driver),
		zap.Bool("telegram_enabled", cfg.Telegram.Enabled),
	)

	// 分頁大小錯誤在啟動時即失敗
	pager, err := pagination.NewFormatter(cfg.Dialogue.PageSize)
	if err != nil {
		common.LogFatal("Invalid page size", zap.Error(err))
	}
	common.LogInfo("鍵盤分頁", zap.Int("page_size", pager.PageSize()))

	gateway, seed, closeCatalog, err := setupCatalog(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize catalog", zap.Error(err))
	}
	defer closeCatalog()

	ranker, err := setupRanker(cfg, seed)
	if err != nil {
		common.LogFatal("Failed to initialize ranker", zap.Error(err))
	}

	sessions := session.NewStore()
	finder := recipe.NewFinder(gateway, ranker, cfg.Ranking.Limit)
	engine := dialogue.NewEngine(sessions, gateway, finder, pager)

	deps := api.Dependencies{
		Engine:   engine,
		Sessions: sessions,
		Catalog:  gateway,
	}
	if cfg.Telegram.Enabled {
		deps.Telegram = service.NewTelegramService(&cfg.Telegram)
	}

	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited", zap.Int("sessions", sessions.Len()))
}

// setupCatalog 依設定建立目錄，並回傳讀到的種子資料（可能為 nil）
func setupCatalog(cfg *config.Config) (catalog.Gateway, *catalog.Data, func(), error) {
	var seed *catalog.Data
	if cfg.Catalog.SeedFile != "" && (cfg.Catalog.Driver == config.CatalogDriverMemory ||
		cfg.Catalog.SeedOnStart || cfg.Ranking.Driver == config.RankingDriverOverlap) {
		data, err := catalog.LoadFile(cfg.Catalog.SeedFile)
		if err != nil {
			if common.IsValidationError(err) {
				return nil, nil, nil, fmt.Errorf("invalid catalog seed %q: %w", cfg.Catalog.SeedFile, err)
			}
			return nil, nil, nil, err
		}
		seed = data
	}

	switch cfg.Catalog.Driver {
	case config.CatalogDriverRedis:
		store, err := catalog.NewRedisStore(&cfg.Catalog)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Catalog.SeedOnStart {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := store.Seed(ctx, seed); err != nil {
				_ = store.Close()
				return nil, nil, nil, err
			}
		}
		return store, seed, func() { _ = store.Close() }, nil
	default:
		common.LogInfo("Using in-memory catalog",
			zap.String("seed_file", cfg.Catalog.SeedFile),
			zap.Int("categories", len(seed.Categories)),
		)
		return catalog.NewMemoryStore(seed), seed, func() {}, nil
	}
}

// setupRanker 依設定建立排名來源
func setupRanker(cfg *config.Config, seed *catalog.Data) (ranking.Ranker, error) {
	switch cfg.Ranking.Driver {
	case config.RankingDriverHTTP:
		return ranking.NewHTTPRanker(&cfg.Ranking), nil
	default:
		if seed == nil {
			return nil, fmt.Errorf("overlap ranker needs recipes from %q", cfg.Catalog.SeedFile)
		}
		return ranking.NewOverlapRanker(seed.Recipes), nil
	}
}
