package scoring

import (
	"math"

	"github.com/mpedroso/acontece/utils"
)

// Word count thresholds for the complete_content and word_count signals, and
// the trust score floor for trusted_source.
const (
	completeContentMinWords = 100
	wordCountBonusMinWords  = 200
	trustedSourceMinScore   = 7
	minExcerptChars         = 20
)

// Weights holds the configured weight of each scoring signal.
type Weights struct {
	TrustedSource   float64 `json:"trusted_source"`
	CompleteContent float64 `json:"complete_content"`
	HasImage        float64 `json:"has_image"`
	HasAuthor       float64 `json:"has_author"`
	WordCount       float64 `json:"word_count"`
	HasExcerpt      float64 `json:"has_excerpt"`
}

// DefaultWeights returns the weight of each signal when not configured in
// system settings.
func DefaultWeights() Weights {
	return Weights{
		TrustedSource:   2,
		CompleteContent: 2,
		HasImage:        2,
		HasAuthor:       1,
		WordCount:       1,
		HasExcerpt:      1,
	}
}

func (w Weights) total() float64 {
	return w.TrustedSource + w.CompleteContent + w.HasImage + w.HasAuthor + w.WordCount + w.HasExcerpt
}

// Candidate is the subset of an article the scorer looks at.
type Candidate struct {
	Title      string
	Content    string
	Excerpt    string
	ImageUrl   string
	Author     string
	TrustScore float64
}

// Criteria is the audit trail of a single scoring run. It is persisted as
// JSONB next to the score so editors can see how a score was derived and so
// re-audits can recompute it.
type Criteria struct {
	TrustedSource   bool    `json:"trusted_source"`
	CompleteContent bool    `json:"complete_content"`
	HasImage        bool    `json:"has_image"`
	HasAuthor       bool    `json:"has_author"`
	WordCount       int     `json:"word_count"`
	HasExcerpt      bool    `json:"has_excerpt"`
	RawScore        float64 `json:"raw_score"`
	MaxPossible     float64 `json:"max_possible"`
}

// Score computes the 0-10 weighted quality score of a candidate. Each signal
// adds its weight to the earned total when its predicate holds, and to the
// maximum unconditionally. The final score is earned/max scaled to 10 and
// rounded to two decimals; a zero maximum yields zero.
func Score(c Candidate, w Weights) (float64, Criteria) {
	wordCount := utils.CountWords(c.Content)

	criteria := Criteria{
		TrustedSource:   c.TrustScore >= trustedSourceMinScore,
		CompleteContent: wordCount > completeContentMinWords,
		HasImage:        c.ImageUrl != "",
		HasAuthor:       c.Author != "",
		WordCount:       wordCount,
		HasExcerpt:      len([]rune(c.Excerpt)) > minExcerptChars,
	}

	earned := 0.0
	if criteria.TrustedSource {
		earned += w.TrustedSource
	}
	if criteria.CompleteContent {
		earned += w.CompleteContent
	}
	if criteria.HasImage {
		earned += w.HasImage
	}
	if criteria.HasAuthor {
		earned += w.HasAuthor
	}
	if wordCount > wordCountBonusMinWords {
		earned += w.WordCount
	}
	if criteria.HasExcerpt {
		earned += w.HasExcerpt
	}

	criteria.RawScore = earned
	criteria.MaxPossible = w.total()

	if criteria.MaxPossible == 0 {
		return 0, criteria
	}

	score := math.Round(earned/criteria.MaxPossible*10*100) / 100
	return score, criteria
}
