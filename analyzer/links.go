package analyzer

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/seo-optimizer/scorer/metrics"
	"github.com/seo-optimizer/scorer/stats"
)

// analyzeLinks classifies the page's unique http(s) links and, unless
// disabled, checks them for accessibility
func (a *Analyzer) analyzeLinks(ctx context.Context, doc *goquery.Document, base *url.URL) LinkAnalysis {
	links := LinkAnalysis{Checked: a.checkLinks}

	seen := make(map[string]bool)
	var targets []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		// mailto:, tel:, javascript: and friends
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		resolved.Fragment = ""

		target := resolved.String()
		if seen[target] {
			return
		}
		seen[target] = true

		if strings.EqualFold(resolved.Host, base.Host) {
			links.InternalLinks++
		} else {
			links.ExternalLinks++
		}
		targets = append(targets, target)
	})

	if a.checkLinks && len(targets) > 0 {
		links.BrokenLinks = a.countBrokenLinks(ctx, targets)
	}

	links.Score = scoreLinks(links)
	return links
}

// countBrokenLinks checks targets with bounded parallelism
func (a *Analyzer) countBrokenLinks(ctx context.Context, targets []string) int {
	linkCtx, cancel := context.WithTimeout(ctx, a.linkBudget)
	defer cancel()

	var broken atomic.Int64
	g, gctx := errgroup.WithContext(linkCtx)
	g.SetLimit(a.linkConcurrency)

	for _, target := range targets {
		g.Go(func() error {
			if !a.isLinkAccessible(gctx, target) {
				broken.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(broken.Load())
}

// isLinkAccessible reports whether target answers with a 2xx or 3xx status.
// Links that could not be checked before ctx expired count as accessible and
// are not cached.
func (a *Analyzer) isLinkAccessible(ctx context.Context, target string) bool {
	cacheKey := generateCacheKey(target, nil)
	if accessible, found := a.linkCache.Get(cacheKey); found {
		a.stats.Record(stats.Delta{LinkCacheHits: 1})
		metrics.RecordCacheLookup("link", true)
		return accessible
	}

	a.stats.Record(stats.Delta{LinkCacheMisses: 1})
	metrics.RecordCacheLookup("link", false)

	status, err := a.linkStatus(ctx, http.MethodHead, target)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = a.linkStatus(ctx, http.MethodGet, target)
	}
	if err != nil && ctx.Err() != nil {
		return true
	}

	accessible := err == nil && status >= 200 && status < 400
	a.linkCache.Add(cacheKey, accessible)
	return accessible
}

func (a *Analyzer) linkStatus(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.linkClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	return resp.StatusCode, nil
}

func scoreLinks(links LinkAnalysis) int {
	score := 100

	switch {
	case links.InternalLinks == 0:
		score -= 40
	case links.InternalLinks < 3:
		score -= 30
	case links.InternalLinks < 5:
		score -= 20
	}

	switch {
	case links.ExternalLinks == 0:
		score -= 30
	case links.ExternalLinks > 50:
		score -= 15
	}

	switch {
	case links.BrokenLinks > 5:
		score -= 30
	case links.BrokenLinks > 3:
		score -= 20
	case links.BrokenLinks > 0:
		score -= 10
	}

	return score
}
