package content

// Grade is the letter grade derived from a readability score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Classification describes how a keyword density compares to the optimal range
type Classification string

const (
	Low     Classification = "low"
	Optimal Classification = "optimal"
	High    Classification = "high"
)

type Category string

const (
	CategoryKeyword     Category = "keyword"
	CategoryHeading     Category = "heading"
	CategoryReadability Category = "readability"
	CategoryLength      Category = "length"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Document is the input of a single scoring call
type Document struct {
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
	Headings int      `json:"headings"`
}

// NewDocument creates a Document and detects its heading count from the content
func NewDocument(content string, keywords []string) Document {
	return Document{
		Content:  content,
		Keywords: keywords,
		Headings: CountHeadings(content),
	}
}

// Readability represents the Flesch reading-ease analysis of a text
type Readability struct {
	Score               float64  `json:"score"`
	Grade               Grade    `json:"grade"`
	Suggestions         []string `json:"suggestions"`
	Sentences           int      `json:"sentences"`
	Words               int      `json:"words"`
	Syllables           int      `json:"syllables"`
	AvgSentenceLength   float64  `json:"avgSentenceLength"`
	AvgSyllablesPerWord float64  `json:"avgSyllablesPerWord"`
}

// KeywordDensity is the density analysis for one target keyword
type KeywordDensity struct {
	Keyword        string         `json:"keyword"`
	Density        float64        `json:"density"`
	Count          int            `json:"count"`
	Positions      []int          `json:"positions"`
	Classification Classification `json:"classification"`
}

type Suggestion struct {
	Category Category `json:"category"`
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
}

// Result is the complete output of scoring a Document
type Result struct {
	Readability    Readability      `json:"readability"`
	KeywordDensity []KeywordDensity `json:"keywordDensity"`
	SEOScore       float64          `json:"seoScore"`
	Suggestions    []Suggestion     `json:"suggestions"`
	WordCount      int              `json:"wordCount"`
	HeadingCount   int              `json:"headingCount"`
}

// TermCount is a term and the number of times it occurs
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}
