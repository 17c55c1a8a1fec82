package content

const (
	SuggestLongSentences  = "Sentences are too long; aim for an average of 20 words or fewer per sentence"
	SuggestComplexWords   = "Words are too complex; prefer shorter words with fewer syllables"
	SuggestComplexContent = "Content is too complex for the target audience; simplify wording and sentence structure"
)

// Readability computes the Flesch reading-ease score of content. The score is
// not clamped: very simple text can exceed 100 and dense text can go negative.
func (p Profile) Readability(content string) Readability {
	return p.readability(Normalize(content))
}

func (p Profile) readability(text string) Readability {
	result := Readability{
		Grade:       GradeF,
		Suggestions: []string{},
	}

	words := Words(text)
	sentences := Sentences(text)
	result.Words = len(words)
	result.Sentences = len(sentences)

	// Nothing to divide by
	if result.Words == 0 || result.Sentences == 0 {
		return result
	}

	for _, w := range words {
		result.Syllables += p.Syllables(w)
	}

	result.AvgSentenceLength = float64(result.Words) / float64(result.Sentences)
	result.AvgSyllablesPerWord = float64(result.Syllables) / float64(result.Words)
	result.Score = 206.835 - 1.015*result.AvgSentenceLength - 84.6*result.AvgSyllablesPerWord
	result.Grade = GradeFor(result.Score)

	if result.AvgSentenceLength > p.MaxAvgSentenceLength {
		result.Suggestions = append(result.Suggestions, SuggestLongSentences)
	}
	if result.AvgSyllablesPerWord > p.MaxAvgSyllablesPerWord {
		result.Suggestions = append(result.Suggestions, SuggestComplexWords)
	}
	if result.Score < p.MinReadableScore {
		result.Suggestions = append(result.Suggestions, SuggestComplexContent)
	}

	return result
}

// GradeFor maps a reading-ease score to its letter grade
func GradeFor(score float64) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}
