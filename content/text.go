package content

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

var markdownHeadingRe = regexp.MustCompile(`(?m)^ {0,3}#{1,6}[ \t]+\S`)

// Normalize returns s in Unicode NFC form so precomposed and decomposed
// letters tokenize and match the same way.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// normalizeWithOffsets returns the NFC form of s together with, for every rune
// of the result, its rune offset in s. Runes produced by composing several
// input runes map to the first of them.
func normalizeWithOffsets(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s))

	origin := 0
	for s != "" {
		n := norm.NFC.NextBoundaryInString(s, true)
		if n <= 0 {
			n = len(s)
		}
		segment := s[:n]
		segmentRunes := utf8.RuneCountInString(segment)

		i := 0
		for _, r := range norm.NFC.String(segment) {
			offsets = append(offsets, origin+min(i, segmentRunes-1))
			b.WriteRune(r)
			i++
		}

		origin += segmentRunes
		s = s[n:]
	}
	return b.String(), offsets
}

// Words splits text on whitespace
func Words(text string) []string {
	return strings.Fields(text)
}

// Sentences splits text on sentence terminators and drops blank fragments
func Sentences(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := fragments[:0]
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			sentences = append(sentences, f)
		}
	}
	return sentences
}

// Syllables approximates the syllable count of a single word by counting
// vowel clusters. Words of three runes or fewer always count as one.
func (p Profile) Syllables(word string) int {
	if utf8.RuneCountInString(word) <= 3 {
		return 1
	}

	count := 0
	inCluster := false
	for _, r := range strings.ToLower(word) {
		if strings.ContainsRune(p.Vowels, r) {
			if !inCluster {
				count++
			}
			inCluster = true
			continue
		}
		inCluster = false
	}

	if count == 0 {
		return 1
	}
	return count
}

// CountHeadings counts HTML heading elements and Markdown ATX headings in content
func CountHeadings(content string) int {
	count := len(markdownHeadingRe.FindAllStringIndex(content, -1))

	if !strings.Contains(content, "<") {
		return count
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return count
	}
	return count + doc.Find("h1, h2, h3, h4, h5, h6").Length()
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {}, "from": {}, "are": {},
	"was": {}, "will": {}, "has": {}, "have": {}, "had": {}, "but": {}, "not": {}, "your": {},
	"you": {}, "our": {}, "its": {}, "can": {}, "all": {}, "they": {}, "their": {}, "which": {},
	"also": {}, "into": {}, "more": {}, "than": {}, "been": {}, "were": {}, "what": {}, "when": {},
	// Turkish
	"bir": {}, "için": {}, "ile": {}, "çok": {}, "daha": {}, "gibi": {}, "olan": {}, "veya": {},
	"ama": {}, "kadar": {}, "her": {}, "şey": {}, "sonra": {}, "ancak": {}, "olarak": {},
}

// TopTerms returns the n most frequent terms in text, ignoring stopwords and
// terms shorter than three runes. Ties are ordered alphabetically.
func TopTerms(text string, n int) []TermCount {
	if n <= 0 {
		return nil
	}

	freq := map[string]int{}
	split := func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) }
	for _, w := range strings.FieldsFunc(strings.ToLower(Normalize(text)), split) {
		if utf8.RuneCountInString(w) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		freq[w]++
	}

	terms := make([]TermCount, 0, len(freq))
	for term, count := range freq {
		terms = append(terms, TermCount{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count == terms[j].Count {
			return terms[i].Term < terms[j].Term
		}
		return terms[i].Count > terms[j].Count
	})

	if n > len(terms) {
		n = len(terms)
	}
	return terms[:n]
}
