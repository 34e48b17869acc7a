package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Dialogue  *DialogueStatus        `json:"dialogue,omitempty"`
}

// DialogueStatus 對話服務狀態
type DialogueStatus struct {
	Sessions       int    `json:"sessions"`
	CatalogDriver  string `json:"catalog_driver"`
	RankingDriver  string `json:"ranking_driver"`
	TelegramActive bool   `json:"telegram_active"`
}

// SessionCounter 回報目前的會話數
type SessionCounter interface {
	Len() int
}

// CategoryLister 就緒檢查時用來確認目錄可讀
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]string, error)
}

// Handler 健康檢查處理器
type Handler struct {
	cfg      *config.Config
	sessions SessionCounter
	catalog  CategoryLister
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, sessions SessionCounter, catalog CategoryLister) *Handler {
	return &Handler{cfg: cfg, sessions: sessions, catalog: catalog}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Dialogue: &DialogueStatus{
			Sessions:       h.sessions.Len(),
			CatalogDriver:  h.cfg.Catalog.Driver,
			RankingDriver:  h.cfg.Ranking.Driver,
			TelegramActive: h.cfg.Telegram.Enabled,
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.Int("sessions", response.Dialogue.Sessions),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 目錄可讀時才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if _, err := h.catalog.ListCategories(ctx); err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse(common.ErrServiceUnavailable.Wrap(err), h.cfg.App.Debug))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
