// Package metrics provides Prometheus metrics for the scorer service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScoresTotal counts scored documents by readability grade.
	ScoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seoscorer",
			Name:      "scores_total",
			Help:      "Total number of scored documents",
		},
		[]string{"grade"},
	)

	// SEOScore observes the distribution of SEO scores.
	SEOScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "seoscorer",
			Name:      "seo_score",
			Help:      "Distribution of heuristic SEO scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// AnalysesTotal counts page analyses by outcome.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seoscorer",
			Name:      "page_analyses_total",
			Help:      "Total number of page analyses",
		},
		[]string{"status"},
	)

	// CacheLookups counts cache lookups by cache and result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seoscorer",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seoscorer",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordScore records a computed score.
func RecordScore(grade string, score float64) {
	ScoresTotal.WithLabelValues(grade).Inc()
	SEOScore.Observe(score)
}

// RecordAnalysis records a page analysis outcome ("ok", "cached" or "error").
func RecordAnalysis(status string) {
	AnalysesTotal.WithLabelValues(status).Inc()
}

// RecordCacheLookup records a hit or miss on the named cache.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordRequest records a finished HTTP request.
func RecordRequest(method, route, status string, seconds float64) {
	RequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
