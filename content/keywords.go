package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// KeywordDensity analyzes every keyword against content, preserving keyword
// order. Positions are rune offsets into content as given.
func (p Profile) KeywordDensity(content string, keywords []string) []KeywordDensity {
	return p.keywordDensity(content, len(Words(Normalize(content))), keywords)
}

func (p Profile) keywordDensity(content string, totalWords int, keywords []string) []KeywordDensity {
	text, offsets := normalizeWithOffsets(content)

	results := make([]KeywordDensity, 0, len(keywords))
	for _, keyword := range keywords {
		results = append(results, p.analyzeKeyword(text, offsets, totalWords, keyword))
	}
	return results
}

// analyzeKeyword matches keyword in the normalized text and reports positions
// through offsets, which maps normalized runes back to the caller's content
func (p Profile) analyzeKeyword(text string, offsets []int, totalWords int, keyword string) KeywordDensity {
	kd := KeywordDensity{
		Keyword:        keyword,
		Positions:      []int{},
		Classification: Low,
	}

	needle := strings.TrimSpace(Normalize(strings.ToValidUTF8(keyword, "\uFFFD")))
	if needle == "" {
		return kd
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(needle))
	if err != nil {
		return kd
	}
	matches := re.FindAllStringIndex(text, -1)
	kd.Count = len(matches)

	// Byte offsets to rune offsets, walking forward once
	runeOffset, byteOffset := 0, 0
	for _, m := range matches {
		runeOffset += utf8.RuneCountInString(text[byteOffset:m[0]])
		byteOffset = m[0]
		kd.Positions = append(kd.Positions, offsets[runeOffset])
	}

	if totalWords > 0 {
		kd.Density = float64(kd.Count) * 100 / float64(totalWords)
	}
	kd.Classification = p.Classify(kd.Density)
	return kd
}

// Classify places a density percentage relative to the optimal range. Both
// bounds are inclusive.
func (p Profile) Classify(density float64) Classification {
	switch {
	case density < p.OptimalDensityMin:
		return Low
	case density > p.OptimalDensityMax:
		return High
	default:
		return Optimal
	}
}
