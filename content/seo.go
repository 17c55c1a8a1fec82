package content

import "math"

// SEOScore combines readability, keyword coverage, length and heading
// structure into a single score in [0, 100]. Each component is centred on 50
// and weighted; the sum is added to a base of 100 and clamped.
func (p Profile) SEOScore(wordCount, headings int, r Readability, densities []KeywordDensity) float64 {
	if wordCount == 0 {
		return 0
	}

	readabilityScore := clamp(r.Score, 0, 100)

	pctOptimal := 100.0
	if len(densities) > 0 {
		optimal := 0
		for _, kd := range densities {
			if kd.Classification == Optimal {
				optimal++
			}
		}
		pctOptimal = float64(optimal) / float64(len(densities)) * 100
	}

	lengthScore := math.Min(100, float64(wordCount)/float64(p.TargetWordCount)*100)

	headingScore := 50.0
	if headings >= p.MinHeadings {
		headingScore = 100
	}

	score := 100.0
	score += (readabilityScore - 50) * p.Weights.Readability
	score += (pctOptimal - 50) * p.Weights.Keywords
	score += (lengthScore - 50) * p.Weights.Length
	score += (headingScore - 50) * p.Weights.Headings

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
