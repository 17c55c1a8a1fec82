package content

import "fmt"

// signals is what the suggestion rules look at
type signals struct {
	readability Readability
	densities   []KeywordDensity
	wordCount   int
	headings    int
}

type rule struct {
	category Category
	priority Priority
	when     func(p Profile, s signals) bool
	message  func(p Profile, s signals) string
}

type keywordRule struct {
	priority Priority
	when     func(p Profile, kd KeywordDensity) bool
	message  func(p Profile, kd KeywordDensity) string
}

// First matching rule wins for each keyword
var keywordRules = []keywordRule{
	{
		priority: PriorityHigh,
		when:     func(_ Profile, kd KeywordDensity) bool { return kd.Count == 0 },
		message: func(_ Profile, kd KeywordDensity) string {
			return fmt.Sprintf("Keyword %q does not appear in the content", kd.Keyword)
		},
	},
	{
		priority: PriorityMedium,
		when:     func(_ Profile, kd KeywordDensity) bool { return kd.Classification == Low },
		message: func(p Profile, kd KeywordDensity) string {
			return fmt.Sprintf("Use keyword %q more often (density %.2f%%, target %.1f-%.1f%%)",
				kd.Keyword, kd.Density, p.OptimalDensityMin, p.OptimalDensityMax)
		},
	},
	{
		priority: PriorityHigh,
		when:     func(_ Profile, kd KeywordDensity) bool { return kd.Classification == High },
		message: func(p Profile, kd KeywordDensity) string {
			return fmt.Sprintf("Reduce usage of keyword %q to avoid keyword stuffing (density %.2f%%, target %.1f-%.1f%%)",
				kd.Keyword, kd.Density, p.OptimalDensityMin, p.OptimalDensityMax)
		},
	},
}

// Every matching rule fires, in table order
var documentRules = []rule{
	{
		category: CategoryKeyword,
		priority: PriorityLow,
		when:     func(_ Profile, s signals) bool { return s.wordCount > 0 && len(s.densities) == 0 },
		message: func(_ Profile, _ signals) string {
			return "Add target keywords to measure keyword coverage"
		},
	},
	{
		category: CategoryHeading,
		priority: PriorityHigh,
		when:     func(_ Profile, s signals) bool { return s.headings == 0 },
		message: func(p Profile, _ signals) string {
			return fmt.Sprintf("Add headings to structure the content (at least %d)", p.MinHeadings)
		},
	},
	{
		category: CategoryHeading,
		priority: PriorityMedium,
		when:     func(p Profile, s signals) bool { return s.headings > 0 && s.headings < p.MinHeadings },
		message: func(p Profile, s signals) string {
			return fmt.Sprintf("Add more headings to break up the content (found %d, aim for at least %d)", s.headings, p.MinHeadings)
		},
	},
	{
		category: CategoryReadability,
		priority: PriorityHigh,
		when: func(p Profile, s signals) bool {
			return scored(s.readability) && s.readability.Score < p.MinReadableScore
		},
		message: func(_ Profile, _ signals) string { return SuggestComplexContent },
	},
	{
		category: CategoryReadability,
		priority: PriorityMedium,
		when: func(p Profile, s signals) bool {
			return scored(s.readability) && s.readability.AvgSentenceLength > p.MaxAvgSentenceLength
		},
		message: func(_ Profile, _ signals) string { return SuggestLongSentences },
	},
	{
		category: CategoryReadability,
		priority: PriorityMedium,
		when: func(p Profile, s signals) bool {
			return scored(s.readability) && s.readability.AvgSyllablesPerWord > p.MaxAvgSyllablesPerWord
		},
		message: func(_ Profile, _ signals) string { return SuggestComplexWords },
	},
	{
		category: CategoryLength,
		priority: PriorityHigh,
		when:     func(p Profile, s signals) bool { return s.wordCount < p.MinimumWordCount },
		message: func(p Profile, s signals) string {
			return fmt.Sprintf("Content is very short (%d words); aim for at least %d words", s.wordCount, p.TargetWordCount)
		},
	},
	{
		category: CategoryLength,
		priority: PriorityMedium,
		when: func(p Profile, s signals) bool {
			return s.wordCount >= p.MinimumWordCount && s.wordCount < p.TargetWordCount
		},
		message: func(p Profile, _ signals) string {
			return fmt.Sprintf("Add more content (aim for at least %d words)", p.TargetWordCount)
		},
	},
}

// Suggestions maps scorer outputs to recommendations. Keyword suggestions come
// first in keyword order, followed by heading, readability and length rules.
func (p Profile) Suggestions(wordCount, headings int, r Readability, densities []KeywordDensity) []Suggestion {
	s := signals{
		readability: r,
		densities:   densities,
		wordCount:   wordCount,
		headings:    headings,
	}

	suggestions := []Suggestion{}
	for _, kd := range densities {
		for _, kr := range keywordRules {
			if kr.when(p, kd) {
				suggestions = append(suggestions, Suggestion{
					Category: CategoryKeyword,
					Priority: kr.priority,
					Message:  kr.message(p, kd),
				})
				break
			}
		}
	}

	for _, dr := range documentRules {
		if dr.when(p, s) {
			suggestions = append(suggestions, Suggestion{
				Category: dr.category,
				Priority: dr.priority,
				Message:  dr.message(p, s),
			})
		}
	}

	return suggestions
}

// scored reports whether readability was computed from real counts
func scored(r Readability) bool {
	return r.Words > 0 && r.Sentences > 0
}
