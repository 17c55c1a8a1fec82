package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/scorer/metrics"
	"github.com/seo-optimizer/scorer/stats"
)

// TargetURLKey is the context key under which handlers store the analyzed URL
const TargetURLKey = "targetURL"

// saveEvery is the number of requests between traffic snapshots
const saveEvery = 100

// routeKinds maps routes onto the request kinds tracked by stats.Traffic
var routeKinds = map[string]string{
	"/api/score":       "score",
	"/api/score/batch": "score",
	"/api/analyze":     "analyze",
}

// StatsMiddleware tracks visitors, request latency and errors, and records
// request metrics
func StatsMiddleware(traffic *stats.Traffic, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traffic.TrackVisitor(c.ClientIP())

		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(status), latency.Seconds())

		if route == "/metrics" {
			return
		}
		count := traffic.TrackRequest(routeKinds[route], c.GetString(TargetURLKey), latency, status >= 400)

		if count%saveEvery == 0 {
			go func() {
				if err := traffic.Save(); err != nil {
					logger.Warn("failed to save traffic statistics", zap.Error(err))
				}
			}()
		}
	}
}
