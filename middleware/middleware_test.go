package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seo-optimizer/scorer/stats"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "10.0.0.1").Code)

	limited := serve(r, http.MethodGet, "/", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "Rate limit exceeded")

	// Buckets are per IP
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "10.0.0.2").Code)
}

func TestRateLimiterEvictIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	rl.limiter("10.0.0.1")
	rl.evictIdle(time.Now())
	assert.Len(t, rl.visitors, 1)

	rl.evictIdle(time.Now().Add(10 * time.Minute))
	assert.Empty(t, rl.visitors)
}

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	r := gin.New()
	r.Use(ErrorHandler(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", "10.0.0.1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"An unexpected error occurred"}`, w.Body.String())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "panic recovered", entry.Message)
	assert.Equal(t, "/panic", entry.ContextMap()["path"])
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	serve(r, http.MethodGet, "/ok", "10.0.0.1")
	serve(r, http.MethodGet, "/bad", "10.0.0.1")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(400), entries[1].ContextMap()["status"])
}

func TestStatsMiddleware(t *testing.T) {
	traffic, err := stats.NewTraffic(t.TempDir())
	require.NoError(t, err)

	r := gin.New()
	r.Use(StatsMiddleware(traffic, zap.NewNop()))
	r.POST("/api/score", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/analyze", func(c *gin.Context) {
		c.Set(TargetURLKey, "https://example.com/blog/")
		c.Status(http.StatusBadGateway)
	})
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodPost, "/api/score", "10.0.0.1")
	serve(r, http.MethodPost, "/api/analyze", "10.0.0.2")
	serve(r, http.MethodGet, "/metrics", "10.0.0.3")

	snapshot := traffic.Snapshot(true)
	assert.Equal(t, 2, snapshot["totalRequests"])
	assert.Equal(t, 1, snapshot["scoreRequests"])
	assert.Equal(t, 1, snapshot["analyzeRequests"])
	assert.Equal(t, 3, snapshot["uniqueVisitors24h"])
	assert.InDelta(t, 50.0, snapshot["errorRate"], 1e-9)
	assert.Equal(t, []stats.TopURL{{URL: "https://example.com/blog", Count: 1}}, snapshot["popularUrls"])
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := serve(r, http.MethodOptions, "/", "10.0.0.1")
	assert.Equal(t, http.StatusNoContent, preflight.Code)
	assert.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "10.0.0.1").Code)
}

func TestStatsMiddlewareSavesEveryHundredRequests(t *testing.T) {
	dir := t.TempDir()
	traffic, err := stats.NewTraffic(dir)
	require.NoError(t, err)

	r := gin.New()
	r.Use(StatsMiddleware(traffic, zap.NewNop()))
	r.POST("/api/score", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < saveEvery-1; i++ {
		serve(r, http.MethodPost, "/api/score", "10.0.0.1")
	}
	assert.NoFileExists(t, filepath.Join(dir, "traffic.json"))

	serve(r, http.MethodPost, "/api/score", "10.0.0.1")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "traffic.json"))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}
