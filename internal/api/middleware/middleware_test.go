package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl, err := NewRateLimiter(2, time.Second)
	require.NoError(t, err)
	now := time.Unix(0, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// 每半秒補一個
	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// 不超過容量
	now = now.Add(time.Hour)
	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiter_SeparateBuckets(t *testing.T) {
	rl, err := NewRateLimiter(1, time.Minute)
	require.NoError(t, err)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestNewRateLimiter_Invalid(t *testing.T) {
	_, err := NewRateLimiter(0, time.Minute)
	assert.Error(t, err)
	_, err = NewRateLimiter(10, 0)
	assert.Error(t, err)
}

func TestRateLimit_PerClient(t *testing.T) {
	rl, err := NewRateLimiter(1, time.Minute)
	require.NoError(t, err)
	router := gin.New()
	router.Use(RateLimit(rl, time.Minute))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	w := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}

func TestDeduplicator_Window(t *testing.T) {
	d, err := NewDeduplicator(time.Minute, 16)
	require.NoError(t, err)
	now := time.Unix(0, 0)
	d.now = func() time.Time { return now }

	assert.False(t, d.Seen("a"))
	assert.True(t, d.Seen("a"))
	assert.False(t, d.Seen("b"))

	now = now.Add(2 * time.Minute)
	assert.False(t, d.Seen("a"))
}

func TestDeduplicator_InvalidSize(t *testing.T) {
	_, err := NewDeduplicator(time.Minute, 0)
	assert.Error(t, err)
}

func TestDeduplication_SkipsRepeatedBody(t *testing.T) {
	d, err := NewDeduplicator(time.Minute, 16)
	require.NoError(t, err)

	calls := 0
	var bodies []string
	router := gin.New()
	router.POST("/hook", Deduplication(d), func(c *gin.Context) {
		calls++
		raw, _ := c.GetRawData()
		bodies = append(bodies, string(raw))
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook", strings.NewReader(body)))
		return w
	}

	assert.Equal(t, http.StatusOK, post(`{"update_id":1}`).Code)
	w := post(`{"update_id":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"duplicate":true`)
	assert.Equal(t, http.StatusOK, post(`{"update_id":2}`).Code)

	assert.Equal(t, 2, calls)
	// 處理器仍能讀到完整的請求體
	assert.Equal(t, []string{`{"update_id":1}`, `{"update_id":2}`}, bodies)
}

func TestBodySizeLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(8))
	router.POST("/echo", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("much too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(10 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	router.GET("/fast", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "GATEWAY_TIMEOUT")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
