package content

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned by Validate for inconsistent profiles
var ErrInvalidProfile = errors.New("invalid scoring profile")

// Weights holds the coefficients of the heuristic SEO score
type Weights struct {
	Readability float64 `json:"readability" yaml:"readability"`
	Keywords    float64 `json:"keywords" yaml:"keywords"`
	Length      float64 `json:"length" yaml:"length"`
	Headings    float64 `json:"headings" yaml:"headings"`
}

// Profile carries every tunable used by the scorers. The zero value is not
// usable; start from DefaultProfile.
type Profile struct {
	// Vowels are matched after lower-casing when approximating syllables
	Vowels string `json:"vowels" yaml:"vowels"`

	// Keyword density range (percent, inclusive) classified as optimal
	OptimalDensityMin float64 `json:"optimalDensityMin" yaml:"optimal_density_min"`
	OptimalDensityMax float64 `json:"optimalDensityMax" yaml:"optimal_density_max"`

	// Readability suggestion triggers
	MaxAvgSentenceLength   float64 `json:"maxAvgSentenceLength" yaml:"max_avg_sentence_length"`
	MaxAvgSyllablesPerWord float64 `json:"maxAvgSyllablesPerWord" yaml:"max_avg_syllables_per_word"`
	MinReadableScore       float64 `json:"minReadableScore" yaml:"min_readable_score"`

	TargetWordCount  int `json:"targetWordCount" yaml:"target_word_count"`
	MinimumWordCount int `json:"minimumWordCount" yaml:"minimum_word_count"`
	MinHeadings      int `json:"minHeadings" yaml:"min_headings"`

	Weights Weights `json:"weights" yaml:"weights"`
}

// DefaultProfile returns the stock scoring profile
func DefaultProfile() Profile {
	return Profile{
		Vowels:                 "aeıioöuü",
		OptimalDensityMin:      0.5,
		OptimalDensityMax:      3.0,
		MaxAvgSentenceLength:   20,
		MaxAvgSyllablesPerWord: 2,
		MinReadableScore:       60,
		TargetWordCount:        300,
		MinimumWordCount:       100,
		MinHeadings:            2,
		Weights: Weights{
			Readability: 0.30,
			Keywords:    0.40,
			Length:      0.20,
			Headings:    0.10,
		},
	}
}

// Validate reports whether the profile can be used for scoring
func (p Profile) Validate() error {
	switch {
	case p.Vowels == "":
		return fmt.Errorf("%w: vowel set is empty", ErrInvalidProfile)
	case p.OptimalDensityMin < 0:
		return fmt.Errorf("%w: optimal density minimum %.2f is negative", ErrInvalidProfile, p.OptimalDensityMin)
	case p.OptimalDensityMin > p.OptimalDensityMax:
		return fmt.Errorf("%w: optimal density range [%.2f, %.2f] is inverted",
			ErrInvalidProfile, p.OptimalDensityMin, p.OptimalDensityMax)
	case p.TargetWordCount <= 0:
		return fmt.Errorf("%w: target word count must be positive", ErrInvalidProfile)
	case p.MinimumWordCount < 0 || p.MinHeadings < 0:
		return fmt.Errorf("%w: minimum counts must not be negative", ErrInvalidProfile)
	case p.Weights.Readability < 0 || p.Weights.Keywords < 0 || p.Weights.Length < 0 || p.Weights.Headings < 0:
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidProfile)
	}
	return nil
}
