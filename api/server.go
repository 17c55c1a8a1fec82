// Package api exposes the scorer and the page analyzer over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/seo-optimizer/scorer/analyzer"
	"github.com/seo-optimizer/scorer/content"
	"github.com/seo-optimizer/scorer/middleware"
	"github.com/seo-optimizer/scorer/stats"
)

const (
	maxBatchSize  = 100
	defaultTerms  = 10
	maxTerms      = 50
	batchParallel = 8
)

// Options configures a Server
type Options struct {
	Profile        content.Profile
	DevMode        bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server holds the dependencies of the HTTP handlers
type Server struct {
	profile  content.Profile
	devMode  bool
	analyzer *analyzer.Analyzer
	storage  *stats.Storage
	traffic  *stats.Traffic
	limiter  *middleware.RateLimiter
	logger   *zap.Logger
}

// NewServer creates a Server. Close releases the rate limiter.
func NewServer(opts Options, a *analyzer.Analyzer, storage *stats.Storage, traffic *stats.Traffic, logger *zap.Logger) *Server {
	if opts.Profile.Vowels == "" {
		opts.Profile = content.DefaultProfile()
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 2
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 5
	}

	return &Server{
		profile:  opts.Profile,
		devMode:  opts.DevMode,
		analyzer: a,
		storage:  storage,
		traffic:  traffic,
		limiter:  middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		logger:   logger,
	}
}

// Router builds the gin engine with all routes and middleware
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	r.Use(middleware.ErrorHandler(s.logger))
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.CORS())
	r.Use(middleware.StatsMiddleware(s.traffic, s.logger))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/profile", s.getProfile)
		api.GET("/statistics", s.statistics)

		limited := api.Group("", s.limiter.RateLimit())
		limited.POST("/score", s.score)
		limited.POST("/score/batch", s.scoreBatch)
		limited.POST("/analyze", s.analyze)
		limited.POST("/keywords/suggest", s.suggestKeywords)
	}

	return r
}

// Close stops background work owned by the server
func (s *Server) Close() {
	s.limiter.Stop()
}
