package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seo-optimizer/scorer/content"
	"github.com/seo-optimizer/scorer/stats"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
  <title>Readable Content Scoring for Search Engines</title>
  <meta name="description" content="Short description">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <link rel="canonical" href="/article">
</head>
<body>
  <nav><a href="/">Home</a></nav>
  <h1>Content scoring</h1>
  <p>Content scoring measures how easy a text is to read. Short sentences help readers.</p>
  <h2>Keywords</h2>
  <p>Keywords should appear naturally in the text. Content with focus ranks better.</p>
  <img src="/a.png" alt="chart">
  <img src="/b.png">
  <a href="/about">About</a>
  <a href="/missing#top">Missing</a>
  <a href="/about">About again</a>
  <a href="mailto:team@example.com">Mail</a>
  <a href="#section">Jump</a>
  <a href="%s/external">External</a>
</body>
</html>`

func newTestStorage(t *testing.T) *stats.Storage {
	t.Helper()
	storage, err := stats.NewStorage(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Shutdown() })
	return storage
}

func newTestSite(t *testing.T) (*httptest.Server, func() int) {
	t.Helper()

	external := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(external.Close)

	var mu sync.Mutex
	pageHits := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		pageHits++
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, testPage, external.URL)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true}`)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})

	site := httptest.NewServer(mux)
	t.Cleanup(site.Close)

	return site, func() int {
		mu.Lock()
		defer mu.Unlock()
		return pageHits
	}
}

func TestAnalyze(t *testing.T) {
	site, _ := newTestSite(t)
	a := New(Options{}, newTestStorage(t), zap.NewNop())

	analysis, err := a.Analyze(context.Background(), site.URL+"/article", []string{"content"})
	require.NoError(t, err)

	assert.Equal(t, site.URL+"/article", analysis.URL)
	assert.False(t, analysis.Cached)

	assert.Equal(t, "Readable Content Scoring for Search Engines", analysis.Title.Title)
	assert.Equal(t, 100, analysis.Title.Score)

	assert.True(t, analysis.Meta.HasDescription)
	assert.Equal(t, "/article", analysis.Meta.Canonical)

	assert.Equal(t, 1, analysis.Headers.Counts["h1"])
	assert.Equal(t, 1, analysis.Headers.Counts["h2"])
	assert.Equal(t, 2, analysis.Headers.Total)
	assert.Equal(t, []string{"Content scoring"}, analysis.Headers.H1Text)

	assert.Equal(t, 2, analysis.Images.Total)
	assert.Equal(t, 1, analysis.Images.WithAlt)
	assert.Equal(t, 60, analysis.Images.Score)

	assert.True(t, analysis.Performance.MobileOptimized)

	// "/", "/about", "/missing" internal; mailto and fragments skipped
	assert.Equal(t, 3, analysis.Links.InternalLinks)
	assert.Equal(t, 1, analysis.Links.ExternalLinks)
	assert.Equal(t, 1, analysis.Links.BrokenLinks)
	assert.True(t, analysis.Links.Checked)

	require.Len(t, analysis.Content.KeywordDensity, 1)
	assert.Equal(t, "content", analysis.Content.KeywordDensity[0].Keyword)
	assert.Greater(t, analysis.Content.KeywordDensity[0].Count, 0)
	assert.Equal(t, 2, analysis.Content.HeadingCount)
	assert.Greater(t, analysis.Content.WordCount, 0)

	assert.GreaterOrEqual(t, analysis.Score, 0.0)
	assert.LessOrEqual(t, analysis.Score, 100.0)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyzeCaching(t *testing.T) {
	site, pageHits := newTestSite(t)
	storage := newTestStorage(t)
	a := New(Options{SkipLinkCheck: true}, storage, zap.NewNop())
	pageURL := site.URL + "/article"

	first, err := a.Analyze(context.Background(), pageURL, []string{"Content"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, a.IsCached(pageURL, []string{"content"}))
	assert.False(t, a.IsCached(pageURL, []string{"scoring"}))

	second, err := a.Analyze(context.Background(), pageURL, []string{" content "})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, 1, pageHits())

	cacheStats := a.GetCacheStats()
	assert.Equal(t, 1, cacheStats.AnalysisEntries)
	assert.Equal(t, 1, cacheStats.AnalysisCacheHits)
	assert.Equal(t, 1, cacheStats.AnalysisCacheMisses)

	current := storage.GetCurrentStats()
	assert.Equal(t, 1, current.PageAnalyses)

	a.ClearCache()
	assert.False(t, a.IsCached(pageURL, []string{"content"}))
	assert.Equal(t, 0, a.GetCacheStats().AnalysisEntries)
}

func TestAnalyzeErrors(t *testing.T) {
	site, _ := newTestSite(t)
	a := New(Options{SkipLinkCheck: true}, newTestStorage(t), zap.NewNop())

	tests := []struct {
		name string
		url  string
		err  error
	}{
		{"relative URL", "/article", ErrInvalidURL},
		{"unsupported scheme", "ftp://example.com/file", ErrInvalidURL},
		{"error status", site.URL + "/gone", ErrFetch},
		{"not html", site.URL + "/data.json", ErrNotHTML},
		{"unreachable", "http://127.0.0.1:1/", ErrFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := a.Analyze(context.Background(), tt.url, nil)
			assert.Nil(t, analysis)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestAnalyzeSkipLinkCheck(t *testing.T) {
	site, _ := newTestSite(t)
	a := New(Options{SkipLinkCheck: true}, newTestStorage(t), zap.NewNop())

	analysis, err := a.Analyze(context.Background(), site.URL+"/article", nil)
	require.NoError(t, err)

	assert.False(t, analysis.Links.Checked)
	assert.Equal(t, 0, analysis.Links.BrokenLinks)
	assert.Equal(t, []string{}, analysis.Keywords)
	assert.Equal(t, 0, a.GetCacheStats().LinkEntries)
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestAnalyzeTitle(t *testing.T) {
	tests := []struct {
		title string
		score int
	}{
		{"", 0},
		{"Short", 50},
		{strings.Repeat("a", 30), 100},
		{strings.Repeat("a", 60), 100},
		{strings.Repeat("a", 61), 70},
	}

	for _, tt := range tests {
		doc := parseHTML(t, "<html><head><title>"+tt.title+"</title></head></html>")
		title := analyzeTitle(doc)
		assert.Equal(t, tt.score, title.Score, "title of length %d", len(tt.title))
		assert.Equal(t, tt.title != "", title.HasTitle)
	}
}

func TestAnalyzeMeta(t *testing.T) {
	doc := parseHTML(t, `<html><head>
		<meta name="description" content="`+strings.Repeat("d", 130)+`">
		<meta name="keywords" content="seo, content">
		<meta name="viewport" content="width=device-width">
		<meta name="robots" content="index, follow">
		<link rel="canonical" href="https://example.com/page">
	</head></html>`)

	meta := analyzeMeta(doc)
	assert.Equal(t, 130, meta.DescriptionLen)
	assert.True(t, meta.HasKeywords)
	assert.Equal(t, "https://example.com/page", meta.Canonical)
	assert.Equal(t, 100, meta.Score)

	noindex := analyzeMeta(parseHTML(t, `<html><head><meta name="robots" content="noindex"></head></html>`))
	assert.Equal(t, 0, noindex.Score)
}

func TestAnalyzeHeaders(t *testing.T) {
	headers := analyzeHeaders(parseHTML(t, "<h1>A</h1><h1>B</h1><h3>C</h3>"))
	assert.Equal(t, 2, headers.Counts["h1"])
	assert.Equal(t, 3, headers.Total)
	assert.Equal(t, 50, headers.Score)
	assert.Equal(t, []string{"A", "B"}, headers.H1Text)
}

func TestAnalyzeImages(t *testing.T) {
	tests := []struct {
		html  string
		score int
	}{
		{"<p>none</p>", 50},
		{`<img alt="a"><img alt="b">`, 100},
		{`<img alt="a"><img alt=" ">`, 60},
		{`<img><img>`, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.score, analyzeImages(parseHTML(t, tt.html)).Score, tt.html)
	}
}

func TestAnalyzePerformance(t *testing.T) {
	fast := analyzePerformance(100*1024, 200*time.Millisecond, true)
	assert.Equal(t, 100, fast.Score)
	assert.Equal(t, "good", fast.PageSizeSeverity)
	assert.Equal(t, "good", fast.LoadTimeSeverity)

	slow := analyzePerformance(3*1024*1024, 3500*time.Millisecond, false)
	assert.Equal(t, 10, slow.Score)
	assert.Equal(t, "major", slow.PageSizeSeverity)
	assert.Equal(t, "critical", slow.LoadTimeSeverity)
	assert.Equal(t, 3500, slow.LoadTime)
}

func TestScoreLinks(t *testing.T) {
	assert.Equal(t, 100, scoreLinks(LinkAnalysis{InternalLinks: 5, ExternalLinks: 2}))
	assert.Equal(t, 30, scoreLinks(LinkAnalysis{}))
	assert.Equal(t, 60, scoreLinks(LinkAnalysis{InternalLinks: 2, ExternalLinks: 1, BrokenLinks: 1}))
}

func TestGenerateRecommendations(t *testing.T) {
	analysis := &PageAnalysis{
		Headers: HeaderAnalysis{Counts: map[string]int{}},
		Content: content.Result{
			Suggestions: []content.Suggestion{
				{Category: content.CategoryLength, Priority: content.PriorityHigh, Message: "Add more content"},
			},
		},
		Images:      ImageAnalysis{Total: 2, WithAlt: 1},
		Performance: Performance{PageSizeSeverity: "minor", LoadTimeSeverity: "critical", MobileOptimized: true},
		Links:       LinkAnalysis{InternalLinks: 5, ExternalLinks: 1},
	}

	recs := generateRecommendations(analysis)

	var categories []content.Category
	for _, r := range recs {
		categories = append(categories, r.Category)
	}
	assert.Equal(t, []content.Category{
		CategoryTitle,
		CategoryMeta,
		content.CategoryHeading,
		content.CategoryLength,
		CategoryImages,
		CategoryPerformance,
		CategoryPerformance,
	}, categories)

	assert.Equal(t, content.PriorityLow, recs[5].Priority)
	assert.Equal(t, content.PriorityHigh, recs[6].Priority)
}

func TestCalculateOverallScore(t *testing.T) {
	perfect := &PageAnalysis{
		Title:       TitleAnalysis{Score: 100},
		Meta:        MetaAnalysis{Score: 100},
		Headers:     HeaderAnalysis{Score: 100},
		Content:     content.Result{SEOScore: 100},
		Images:      ImageAnalysis{Score: 100},
		Performance: Performance{Score: 100},
		Links:       LinkAnalysis{Score: 100},
	}
	assert.InDelta(t, 100.0, calculateOverallScore(perfect), 1e-9)

	negative := &PageAnalysis{Performance: Performance{Score: -60}}
	assert.Equal(t, 0.0, calculateOverallScore(negative))
}

func TestConcurrentAnalysis(t *testing.T) {
	site, pageHits := newTestSite(t)
	a := New(Options{SkipLinkCheck: true}, newTestStorage(t), zap.NewNop())

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers*5)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if _, err := a.Analyze(context.Background(), site.URL+"/article", []string{"content"}); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("analysis failed: %v", err)
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	t.Logf("heap: %d -> %d bytes, GC runs: %d", before.HeapAlloc, after.HeapAlloc, after.NumGC-before.NumGC)

	cacheStats := a.GetCacheStats()
	assert.Equal(t, workers*5, cacheStats.AnalysisCacheHits+cacheStats.AnalysisCacheMisses)
	assert.Equal(t, 1, cacheStats.AnalysisEntries)
	assert.LessOrEqual(t, pageHits(), workers)
}
