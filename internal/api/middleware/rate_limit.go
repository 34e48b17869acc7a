package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"recipe-finder/internal/pkg/common"
)

// 最多追蹤的來源數，超過時淘汰最久未出現的來源
const maxTrackedClients = 10000

// RateLimiter 每個來源各自一個令牌桶
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter 創建限流器：每個來源在 window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) (*RateLimiter, error) {
	if requests <= 0 || window <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d per %s", requests, window)
	}
	limiters, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		return nil, fmt.Errorf("rate limiter init: %w", err)
	}
	return &RateLimiter{
		limiters: limiters,
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		now:      time.Now,
	}, nil
}

// Allow 檢查來源 key 是否還有令牌
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	rl.mu.Unlock()

	return limiter.AllowN(rl.now(), 1)
}

// RateLimit 以來源 IP 分別限流的中間件
func RateLimit(rl *RateLimiter, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewErrorResponse(common.ErrTooManyRequests, false))
			return
		}

		c.Next()
	}
}
