package analyzer

import (
	"fmt"
	"math"

	"github.com/seo-optimizer/scorer/content"
)

var overallWeights = struct {
	title, meta, headers, content, images, performance, links float64
}{
	title:       0.15,
	meta:        0.15,
	headers:     0.10,
	content:     0.30,
	images:      0.10,
	performance: 0.10,
	links:       0.10,
}

func calculateOverallScore(analysis *PageAnalysis) float64 {
	w := overallWeights

	score := 0.0
	score += float64(analysis.Title.Score) * w.title
	score += float64(analysis.Meta.Score) * w.meta
	score += float64(analysis.Headers.Score) * w.headers
	score += analysis.Content.SEOScore * w.content
	score += float64(analysis.Images.Score) * w.images
	score += float64(analysis.Performance.Score) * w.performance
	score += float64(analysis.Links.Score) * w.links

	return math.Max(0, math.Min(100, score))
}

// severityPriority maps performance severities onto suggestion priorities
var severityPriority = map[string]content.Priority{
	"critical": content.PriorityHigh,
	"major":    content.PriorityHigh,
	"moderate": content.PriorityMedium,
	"minor":    content.PriorityLow,
}

var pageSizeMessages = map[string]string{
	"critical": "Page size is extremely large (>5MB). Optimize images, minify CSS/JS and remove unnecessary resources",
	"major":    "Page size is very large (>2MB). Optimize images and lazy load non-critical resources",
	"moderate": "Page size is large (>1MB). Look for opportunities to optimize images and resources",
	"minor":    "Page size is above optimal (>500KB). Consider basic optimization techniques",
}

var loadTimeMessages = map[string]string{
	"critical": "Page load time is extremely slow (>3s). Use a CDN, improve server response time and reduce resource size",
	"major":    "Page load time is slow (>2s). Improve server response time and optimize resources",
	"moderate": "Page load time is above optimal (>1.5s). Look for opportunities to improve performance",
	"minor":    "Page load time is slightly above optimal (>1s). Consider fine-tuning performance",
}

func generateRecommendations(analysis *PageAnalysis) []content.Suggestion {
	recommendations := []content.Suggestion{}
	add := func(category content.Category, priority content.Priority, message string) {
		recommendations = append(recommendations, content.Suggestion{
			Category: category,
			Priority: priority,
			Message:  message,
		})
	}

	// Title
	switch {
	case !analysis.Title.HasTitle:
		add(CategoryTitle, content.PriorityHigh, "Add a title tag to your page")
	case analysis.Title.Length < 30:
		add(CategoryTitle, content.PriorityMedium, "Title tag is too short (should be 30-60 characters)")
	case analysis.Title.Length > 60:
		add(CategoryTitle, content.PriorityMedium, "Title tag is too long (should be 30-60 characters)")
	}

	// Meta
	switch {
	case !analysis.Meta.HasDescription:
		add(CategoryMeta, content.PriorityHigh, "Add a meta description")
	case analysis.Meta.DescriptionLen < 120:
		add(CategoryMeta, content.PriorityMedium, "Meta description is too short (should be 120-160 characters)")
	case analysis.Meta.DescriptionLen > 160:
		add(CategoryMeta, content.PriorityMedium, "Meta description is too long (should be 120-160 characters)")
	}

	// Headers
	switch h1 := analysis.Headers.Counts["h1"]; {
	case h1 == 0:
		add(content.CategoryHeading, content.PriorityHigh, "Add an H1 heading")
	case h1 > 1:
		add(content.CategoryHeading, content.PriorityMedium, "Multiple H1 headings found, consider using only one")
	}

	// Page text
	recommendations = append(recommendations, analysis.Content.Suggestions...)

	// Images
	if analysis.Images.Total > 0 && analysis.Images.WithAlt < analysis.Images.Total {
		add(CategoryImages, content.PriorityMedium,
			fmt.Sprintf("Add alt text to all images (%d of %d are missing it)",
				analysis.Images.Total-analysis.Images.WithAlt, analysis.Images.Total))
	}

	// Performance
	perf := analysis.Performance
	if msg, ok := pageSizeMessages[perf.PageSizeSeverity]; ok {
		add(CategoryPerformance, severityPriority[perf.PageSizeSeverity], msg)
	}
	if msg, ok := loadTimeMessages[perf.LoadTimeSeverity]; ok {
		add(CategoryPerformance, severityPriority[perf.LoadTimeSeverity], msg)
	}
	if !perf.MobileOptimized {
		add(CategoryPerformance, content.PriorityHigh,
			`Add a viewport meta tag for mobile optimization (e.g., <meta name="viewport" content="width=device-width, initial-scale=1">)`)
	}

	// Links
	links := analysis.Links
	if links.BrokenLinks > 0 {
		add(CategoryLinks, content.PriorityHigh, fmt.Sprintf("Fix broken links: found %d broken link(s)", links.BrokenLinks))
	}
	if links.InternalLinks < 3 {
		add(CategoryLinks, content.PriorityMedium, "Add more internal links to improve site navigation (aim for at least 3-5)")
	}
	if links.ExternalLinks == 0 {
		add(CategoryLinks, content.PriorityLow, "Add relevant external links to authoritative sources")
	} else if links.ExternalLinks > 50 {
		add(CategoryLinks, content.PriorityLow,
			fmt.Sprintf("Consider reducing the number of external links (current: %d)", links.ExternalLinks))
	}

	return recommendations
}
