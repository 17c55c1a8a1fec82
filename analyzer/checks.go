package analyzer

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

func analyzeTitle(doc *goquery.Document) TitleAnalysis {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	length := utf8.RuneCountInString(title)

	score := 0
	if length > 0 {
		if length >= 30 && length <= 60 {
			score = 100
		} else if length < 30 {
			score = 50
		} else {
			score = 70
		}
	}

	return TitleAnalysis{
		Title:    title,
		Length:   length,
		HasTitle: length > 0,
		Score:    score,
	}
}

func analyzeMeta(doc *goquery.Document) MetaAnalysis {
	meta := MetaAnalysis{}
	score := 0

	meta.Description, _ = doc.Find("meta[name='description']").Attr("content")
	meta.Description = strings.TrimSpace(meta.Description)
	meta.DescriptionLen = utf8.RuneCountInString(meta.Description)
	meta.HasDescription = meta.DescriptionLen > 0

	meta.Keywords, _ = doc.Find("meta[name='keywords']").Attr("content")
	meta.HasKeywords = len(strings.TrimSpace(meta.Keywords)) > 0

	meta.Robots, _ = doc.Find("meta[name='robots']").Attr("content")
	meta.Viewport, _ = doc.Find("meta[name='viewport']").Attr("content")
	meta.Canonical, _ = doc.Find("link[rel='canonical']").Attr("href")

	if meta.HasDescription {
		if meta.DescriptionLen >= 120 && meta.DescriptionLen <= 160 {
			score += 40
		} else {
			score += 20
		}
	}
	if meta.HasKeywords {
		score += 15
	}
	if meta.Viewport != "" {
		score += 20
	}
	if meta.Robots != "" && !strings.Contains(strings.ToLower(meta.Robots), "noindex") {
		score += 10
	}
	if meta.Canonical != "" {
		score += 15
	}

	meta.Score = score
	return meta
}

func analyzeHeaders(doc *goquery.Document) HeaderAnalysis {
	headers := HeaderAnalysis{
		Counts: make(map[string]int),
		H1Text: []string{},
	}

	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		if n := doc.Find(tag).Length(); n > 0 {
			headers.Counts[tag] = n
			headers.Total += n
		}
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		headers.H1Text = append(headers.H1Text, strings.TrimSpace(s.Text()))
	})

	score := 0
	if h1 := headers.Counts["h1"]; h1 == 1 {
		score += 40
	} else if h1 > 1 {
		score += 20
	}
	if headers.Counts["h2"] > 0 {
		score += 30
	}
	if headers.Counts["h3"] > 0 {
		score += 30
	}

	headers.Score = score
	return headers
}

func analyzeImages(doc *goquery.Document) ImageAnalysis {
	images := ImageAnalysis{}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		images.Total++
		if alt, exists := s.Attr("alt"); exists && strings.TrimSpace(alt) != "" {
			images.WithAlt++
		}
	})

	switch {
	case images.Total == 0:
		images.Score = 50
	case images.WithAlt == images.Total:
		images.Score = 100
	case images.WithAlt > 0:
		images.Score = 60
	default:
		images.Score = 20
	}

	return images
}

func analyzePerformance(pageSize int, loadTime time.Duration, mobileOptimized bool) Performance {
	perf := Performance{
		PageSize:         pageSize,
		LoadTime:         int(loadTime.Milliseconds()),
		MobileOptimized:  mobileOptimized,
		PageSizeSeverity: "good",
		LoadTimeSeverity: "good",
	}

	score := 100

	pageSizeKB := float64(pageSize) / 1024.0
	switch {
	case pageSizeKB > 5120:
		score -= 40
		perf.PageSizeSeverity = "critical"
	case pageSizeKB > 2048:
		score -= 30
		perf.PageSizeSeverity = "major"
	case pageSizeKB > 1024:
		score -= 20
		perf.PageSizeSeverity = "moderate"
	case pageSizeKB > 500:
		score -= 10
		perf.PageSizeSeverity = "minor"
	}

	loadTimeMs := loadTime.Milliseconds()
	switch {
	case loadTimeMs > 3000:
		score -= 40
		perf.LoadTimeSeverity = "critical"
	case loadTimeMs > 2000:
		score -= 30
		perf.LoadTimeSeverity = "major"
	case loadTimeMs > 1500:
		score -= 20
		perf.LoadTimeSeverity = "moderate"
	case loadTimeMs > 1000:
		score -= 10
		perf.LoadTimeSeverity = "minor"
	}

	if !perf.MobileOptimized {
		score -= 20
	}

	perf.Score = score
	return perf
}
