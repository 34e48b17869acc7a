package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"recipe-finder/internal/pkg/common"
)

// Deduplicator 以 LRU 記錄最近處理過的請求指紋
type Deduplicator struct {
	mu     sync.Mutex
	seen   *lru.Cache[string, time.Time]
	window time.Duration
	now    func() time.Time
}

// NewDeduplicator 創建去重器，size 為最多記錄的指紋數
func NewDeduplicator(window time.Duration, size int) (*Deduplicator, error) {
	seen, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("request deduper init: %w", err)
	}
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{seen: seen, window: window, now: time.Now}, nil
}

// Seen 記錄指紋，並回報是否在時間窗內已出現過
func (d *Deduplicator) Seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if ts, ok := d.seen.Get(fingerprint); ok {
		if now.Sub(ts) <= d.window {
			return true
		}
		d.seen.Remove(fingerprint)
	}
	d.seen.Add(fingerprint, now)
	return false
}

// Deduplication 請求去重中間件
//
// 用於會重送的 webhook：相同內容在時間窗內再次送達時直接回應成功，不再處理。
func Deduplication(d *Deduplicator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			common.LogError("Failed to read request body", zap.Error(err))
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		hash := sha256.Sum256(body)
		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(hash[:])

		if d.Seen(fingerprint) {
			common.LogInfo("Duplicate request skipped",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"ok":        true,
				"duplicate": true,
			})
			return
		}

		c.Next()
	}
}
