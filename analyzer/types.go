package analyzer

import (
	"time"

	"github.com/seo-optimizer/scorer/content"
)

// Recommendation categories for page-level checks, alongside the content
// categories (keyword, heading, readability, length)
const (
	CategoryTitle       content.Category = "title"
	CategoryMeta        content.Category = "meta"
	CategoryImages      content.Category = "images"
	CategoryPerformance content.Category = "performance"
	CategoryLinks       content.Category = "links"
)

// PageAnalysis represents the complete analysis of a webpage
type PageAnalysis struct {
	URL             string               `json:"url"`
	Keywords        []string             `json:"keywords"`
	Title           TitleAnalysis        `json:"title"`
	Meta            MetaAnalysis         `json:"meta"`
	Headers         HeaderAnalysis       `json:"headers"`
	Content         content.Result       `json:"content"`
	Images          ImageAnalysis        `json:"images"`
	Performance     Performance          `json:"performance"`
	Links           LinkAnalysis         `json:"links"`
	Score           float64              `json:"score"`
	Recommendations []content.Suggestion `json:"recommendations"`
	AnalyzedAt      time.Time            `json:"analyzedAt"`
	Cached          bool                 `json:"cached"`
}

type TitleAnalysis struct {
	Title    string `json:"title"`
	Length   int    `json:"length"`
	HasTitle bool   `json:"hasTitle"`
	Score    int    `json:"score"`
}

type MetaAnalysis struct {
	Description    string `json:"description"`
	DescriptionLen int    `json:"descriptionLength"`
	HasDescription bool   `json:"hasDescription"`
	Keywords       string `json:"keywords"`
	HasKeywords    bool   `json:"hasKeywords"`
	Robots         string `json:"robots"`
	Viewport       string `json:"viewport"`
	Canonical      string `json:"canonical"`
	Score          int    `json:"score"`
}

type HeaderAnalysis struct {
	Counts map[string]int `json:"counts"`
	H1Text []string       `json:"h1Text"`
	Total  int            `json:"total"`
	Score  int            `json:"score"`
}

type ImageAnalysis struct {
	Total   int `json:"total"`
	WithAlt int `json:"withAlt"`
	Score   int `json:"score"`
}

type Performance struct {
	PageSize         int    `json:"pageSize"`
	LoadTime         int    `json:"loadTime"`
	MobileOptimized  bool   `json:"mobileOptimized"`
	Score            int    `json:"score"`
	PageSizeSeverity string `json:"pageSizeSeverity"`
	LoadTimeSeverity string `json:"loadTimeSeverity"`
}

type LinkAnalysis struct {
	InternalLinks int  `json:"internalLinks"`
	ExternalLinks int  `json:"externalLinks"`
	BrokenLinks   int  `json:"brokenLinks"`
	Checked       bool `json:"checked"`
	Score         int  `json:"score"`
}

// CacheStats provides statistics about the analyzer's caches
type CacheStats struct {
	AnalysisEntries     int           `json:"analysisEntries"`
	LinkEntries         int           `json:"linkEntries"`
	AnalysisCacheHits   int           `json:"analysisCacheHits"`
	LinkCacheHits       int           `json:"linkCacheHits"`
	AnalysisCacheMisses int           `json:"analysisCacheMisses"`
	LinkCacheMisses     int           `json:"linkCacheMisses"`
	AnalysisCacheTTL    time.Duration `json:"analysisCacheTTL"`
	LinkCacheTTL        time.Duration `json:"linkCacheTTL"`
}
