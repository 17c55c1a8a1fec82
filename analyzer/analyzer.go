// Package analyzer fetches web pages and combines on-page SEO checks with the
// content score of the page text.
package analyzer

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/seo-optimizer/scorer/content"
	"github.com/seo-optimizer/scorer/extract"
	"github.com/seo-optimizer/scorer/metrics"
	"github.com/seo-optimizer/scorer/stats"
)

const (
	userAgent   = "SEOScorer/1.0"
	maxBodySize = 10 << 20
)

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs
	ErrInvalidURL = errors.New("invalid URL")
	// ErrFetch is returned when the page cannot be retrieved
	ErrFetch = errors.New("failed to fetch page")
	// ErrNotHTML is returned when the page is not an HTML document
	ErrNotHTML = errors.New("page is not HTML")
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Options configures an Analyzer. Zero values fall back to defaults.
type Options struct {
	Profile         content.Profile
	CacheTTL        time.Duration
	CacheSize       int
	LinkCacheTTL    time.Duration
	LinkCacheSize   int
	LinkConcurrency int
	FetchTimeout    time.Duration
	LinkTimeout     time.Duration
	// SkipLinkCheck disables HEAD requests against discovered links
	SkipLinkCheck bool
	Transport     http.RoundTripper
}

// Analyzer performs SEO analysis of web pages
type Analyzer struct {
	client          *http.Client
	linkClient      *http.Client
	cache           *expirable.LRU[string, *PageAnalysis]
	cacheTTL        time.Duration
	linkCache       *expirable.LRU[string, bool]
	linkCacheTTL    time.Duration
	linkConcurrency int
	linkBudget      time.Duration
	checkLinks      bool
	profile         content.Profile
	stats           *stats.Storage
	logger          *zap.Logger
}

// New creates an Analyzer. Usage counters are recorded in storage.
func New(opts Options, storage *stats.Storage, logger *zap.Logger) *Analyzer {
	if opts.Profile.Vowels == "" {
		opts.Profile = content.DefaultProfile()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1000
	}
	if opts.LinkCacheTTL <= 0 {
		opts.LinkCacheTTL = 10 * time.Minute
	}
	if opts.LinkCacheSize <= 0 {
		opts.LinkCacheSize = 10000
	}
	if opts.LinkConcurrency <= 0 {
		opts.LinkConcurrency = 10
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	if opts.LinkTimeout <= 0 {
		opts.LinkTimeout = 5 * time.Second
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	return &Analyzer{
		client: &http.Client{
			Timeout:   opts.FetchTimeout,
			Transport: transport,
		},
		linkClient: &http.Client{
			Timeout:   opts.LinkTimeout,
			Transport: transport,
		},
		cache:           expirable.NewLRU[string, *PageAnalysis](opts.CacheSize, nil, opts.CacheTTL),
		cacheTTL:        opts.CacheTTL,
		linkCache:       expirable.NewLRU[string, bool](opts.LinkCacheSize, nil, opts.LinkCacheTTL),
		linkCacheTTL:    opts.LinkCacheTTL,
		linkConcurrency: opts.LinkConcurrency,
		linkBudget:      15 * time.Second,
		checkLinks:      !opts.SkipLinkCheck,
		profile:         opts.Profile,
		stats:           storage,
		logger:          logger,
	}
}

// generateCacheKey creates a unique key for the URL and keyword set
func generateCacheKey(pageURL string, keywords []string) string {
	normalized := make([]string, len(keywords))
	for i, k := range keywords {
		normalized[i] = strings.ToLower(strings.TrimSpace(k))
	}
	hash := md5.Sum([]byte(pageURL + "\x00" + strings.Join(normalized, "\x1f")))
	return hex.EncodeToString(hash[:])
}

// IsCached checks if an analysis of the URL with these keywords is cached
func (a *Analyzer) IsCached(pageURL string, keywords []string) bool {
	return a.cache.Contains(generateCacheKey(pageURL, keywords))
}

// ClearCache drops all cached analyses and link states
func (a *Analyzer) ClearCache() {
	a.cache.Purge()
	a.linkCache.Purge()
}

// GetCacheStats returns statistics about the caches
func (a *Analyzer) GetCacheStats() CacheStats {
	current := a.stats.GetCurrentStats()

	return CacheStats{
		AnalysisEntries:     a.cache.Len(),
		LinkEntries:         a.linkCache.Len(),
		AnalysisCacheHits:   current.AnalysisCacheHits,
		LinkCacheHits:       current.LinkCacheHits,
		AnalysisCacheMisses: current.AnalysisCacheMisses,
		LinkCacheMisses:     current.LinkCacheMisses,
		AnalysisCacheTTL:    a.cacheTTL,
		LinkCacheTTL:        a.linkCacheTTL,
	}
}

// Analyze performs a complete SEO analysis of the page at pageURL, scoring its
// text against keywords. Results are cached per URL and keyword set.
func (a *Analyzer) Analyze(ctx context.Context, pageURL string, keywords []string) (*PageAnalysis, error) {
	cacheKey := generateCacheKey(pageURL, keywords)
	if cached, found := a.cache.Get(cacheKey); found {
		a.stats.Record(stats.Delta{AnalysisCacheHits: 1})
		metrics.RecordCacheLookup("analysis", true)
		metrics.RecordAnalysis("cached")

		hit := *cached
		hit.Cached = true
		return &hit, nil
	}

	a.stats.Record(stats.Delta{AnalysisCacheMisses: 1})
	metrics.RecordCacheLookup("analysis", false)

	analysis, err := a.analyze(ctx, pageURL, keywords)
	if err != nil {
		metrics.RecordAnalysis("error")
		a.logger.Info("page analysis failed", zap.String("url", pageURL), zap.Error(err))
		return nil, err
	}

	a.cache.Add(cacheKey, analysis)
	a.stats.Record(stats.Delta{PageAnalyses: 1, ScoresComputed: 1})
	metrics.RecordAnalysis("ok")
	metrics.RecordScore(string(analysis.Content.Readability.Grade), analysis.Content.SEOScore)

	result := *analysis
	return &result, nil
}

func (a *Analyzer) analyze(ctx context.Context, pageURL string, keywords []string) (*PageAnalysis, error) {
	base, err := url.Parse(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}

	startTime := time.Now()
	body, pageSize, err := a.fetch(ctx, base.String())
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(startTime)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	mobileOptimized := false
	doc.Find("meta[name='viewport']").Each(func(_ int, s *goquery.Selection) {
		if c, exists := s.Attr("content"); exists && strings.Contains(strings.ToLower(c), "width=device-width") {
			mobileOptimized = true
		}
	})

	if keywords == nil {
		keywords = []string{}
	}

	analysis := &PageAnalysis{
		URL:        pageURL,
		Keywords:   keywords,
		AnalyzedAt: time.Now(),
	}
	analysis.Title = analyzeTitle(doc)
	analysis.Meta = analyzeMeta(doc)
	analysis.Headers = analyzeHeaders(doc)
	analysis.Images = analyzeImages(doc)
	analysis.Performance = analyzePerformance(pageSize, loadTime, mobileOptimized)
	analysis.Content = a.profile.Score(content.Document{
		Content:  extract.Text(body),
		Keywords: keywords,
		Headings: analysis.Headers.Total,
	})
	analysis.Links = a.analyzeLinks(ctx, doc, base)

	analysis.Score = calculateOverallScore(analysis)
	analysis.Recommendations = generateRecommendations(analysis)

	return analysis, nil
}

// fetch downloads the page body and reports its size in bytes
func (a *Analyzer) fetch(ctx context.Context, pageURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", 0, fmt.Errorf("%w: %s returned status %d", ErrFetch, pageURL, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(strings.ToLower(ct), "html") {
		return "", 0, fmt.Errorf("%w: content type %q", ErrNotHTML, ct)
	}

	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxBodySize)); err != nil {
		return "", 0, fmt.Errorf("%w: reading body: %w", ErrFetch, err)
	}

	pageSize := buf.Len()
	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.Atoi(contentLength); err == nil && size > 0 {
			pageSize = size
		}
	}

	return buf.String(), pageSize, nil
}
