package stats

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Traffic collects request-level statistics of the HTTP service
type Traffic struct {
	UniqueVisitors  map[string]time.Time `json:"uniqueVisitors"` // IP -> last visit
	Requests        int                  `json:"requests"`
	ScoreRequests   int                  `json:"scoreRequests"`
	AnalyzeRequests int                  `json:"analyzeRequests"`
	ErrorCount      int                  `json:"errorCount"`
	PopularURLs     map[string]int       `json:"popularUrls"`
	TotalLatency    float64              `json:"totalLatency"` // milliseconds
	LastPersisted   time.Time            `json:"lastPersisted"`

	filePath string
	mutex    sync.RWMutex
	now      func() time.Time
}

// TopURL is an analyzed URL with its request count
type TopURL struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// NewTraffic creates traffic statistics persisted to <dataDir>/traffic.json,
// loading any previous snapshot.
func NewTraffic(dataDir string) (*Traffic, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	t := &Traffic{
		UniqueVisitors: make(map[string]time.Time),
		PopularURLs:    make(map[string]int),
		filePath:       filepath.Join(dataDir, "traffic.json"),
		now:            time.Now,
	}

	if err := t.Load(); err != nil {
		return nil, err
	}
	return t, nil
}

// TrackVisitor records a visit from ip
func (t *Traffic) TrackVisitor(ip string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.UniqueVisitors[ip] = t.now()
}

// TrackRequest records a finished request and returns the new request count.
// kind is "score", "analyze" or empty for other endpoints; target is the
// analyzed URL, if any.
func (t *Traffic) TrackRequest(kind, target string, latency time.Duration, failed bool) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.Requests++
	t.TotalLatency += float64(latency.Microseconds()) / 1000

	switch kind {
	case "score":
		t.ScoreRequests++
	case "analyze":
		t.AnalyzeRequests++
		if cleaned := cleanURL(target); cleaned != "" {
			t.PopularURLs[cleaned]++
		}
	}

	if failed {
		t.ErrorCount++
	}

	return t.Requests
}

// cleanURL reduces a URL to scheme, host and path. Local and API URLs are
// dropped.
func cleanURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	cleaned := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		cleaned += u.Path
	}
	return strings.TrimSuffix(cleaned, "/")
}

func (t *Traffic) uniqueVisitors24h() int {
	cutoff := t.now().Add(-24 * time.Hour)
	count := 0
	for _, lastVisit := range t.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

func (t *Traffic) errorRate() float64 {
	if t.Requests == 0 {
		return 0
	}
	return float64(t.ErrorCount) / float64(t.Requests) * 100
}

func (t *Traffic) averageLatency() float64 {
	if t.Requests == 0 {
		return 0
	}
	return t.TotalLatency / float64(t.Requests)
}

// TopURLs returns the n most analyzed URLs, most popular first
func (t *Traffic) TopURLs(n int) []TopURL {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.topURLs(n)
}

func (t *Traffic) topURLs(n int) []TopURL {
	urls := make([]TopURL, 0, len(t.PopularURLs))
	for u, count := range t.PopularURLs {
		urls = append(urls, TopURL{URL: u, Count: count})
	}
	sort.Slice(urls, func(i, j int) bool {
		if urls[i].Count == urls[j].Count {
			return urls[i].URL < urls[j].URL
		}
		return urls[i].Count > urls[j].Count
	})

	if n < len(urls) {
		urls = urls[:n]
	}
	return urls
}

// Snapshot returns the public statistics. Popular URLs are only included when
// full is set (development mode).
func (t *Traffic) Snapshot(full bool) map[string]interface{} {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	snapshot := map[string]interface{}{
		"uniqueVisitors24h": t.uniqueVisitors24h(),
		"totalRequests":     t.Requests,
		"scoreRequests":     t.ScoreRequests,
		"analyzeRequests":   t.AnalyzeRequests,
		"errorRate":         t.errorRate(),
		"averageLatencyMs":  t.averageLatency(),
	}
	if full {
		snapshot["popularUrls"] = t.topURLs(5)
	}
	return snapshot
}

// RequestCount returns the number of tracked requests
func (t *Traffic) RequestCount() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.Requests
}

// Save persists the statistics
func (t *Traffic) Save() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.LastPersisted = t.now()

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("could not encode traffic statistics: %w", err)
	}

	tempFile := t.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("could not write traffic statistics: %w", err)
	}
	if err := os.Rename(tempFile, t.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("could not replace traffic statistics: %w", err)
	}
	return nil
}

// Load reads a previous snapshot. A missing file is not an error.
func (t *Traffic) Load() error {
	data, err := os.ReadFile(t.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open traffic statistics: %w", err)
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if err := json.Unmarshal(data, t); err != nil {
		return fmt.Errorf("could not decode traffic statistics: %w", err)
	}
	if t.UniqueVisitors == nil {
		t.UniqueVisitors = make(map[string]time.Time)
	}
	if t.PopularURLs == nil {
		t.PopularURLs = make(map[string]int)
	}
	return nil
}
