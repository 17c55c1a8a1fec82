// Package content scores text for readability, keyword density and overall
// SEO quality. Every function is pure; a Profile carries the tunables.
package content

// Score runs the full analysis of doc with the profile
func (p Profile) Score(doc Document) Result {
	text := Normalize(doc.Content)
	words := len(Words(text))

	readability := p.readability(text)
	densities := p.keywordDensity(doc.Content, words, doc.Keywords)

	return Result{
		Readability:    readability,
		KeywordDensity: densities,
		SEOScore:       p.SEOScore(words, doc.Headings, readability, densities),
		Suggestions:    p.Suggestions(words, doc.Headings, readability, densities),
		WordCount:      words,
		HeadingCount:   doc.Headings,
	}
}

// Score analyzes doc with the default profile
func Score(doc Document) Result {
	return DefaultProfile().Score(doc)
}

// ScoreContent analyzes raw content against keywords with the default profile,
// detecting headings from the content itself.
func ScoreContent(content string, keywords []string) Result {
	return Score(NewDocument(content, keywords))
}
