// Package publisher decides whether a freshly scored candidate goes live
// immediately or is parked for manual review.
package publisher

import (
	"time"

	"github.com/mpedroso/acontece/model"
)

// AutoPublish mirrors the "auto_publish" system setting.
type AutoPublish struct {
	Enabled  bool    `json:"enabled"`
	MinScore float64 `json:"min_score"`
}

// Decision is the outcome of the publish gate for one candidate.
type Decision struct {
	Status      string
	PublishedAt *time.Time
}

// Decide applies the auto-publish gate. When the gate is disabled every
// candidate is recycled for manual review, even a perfect score. When
// enabled, a score at or above the threshold publishes immediately. Pure
// function, no side effects.
func Decide(score float64, setting AutoPublish, now time.Time) Decision {
	if !setting.Enabled {
		return Decision{Status: model.StatusRecycled}
	}
	if score >= setting.MinScore {
		publishedAt := now
		return Decision{Status: model.StatusPublished, PublishedAt: &publishedAt}
	}
	return Decision{Status: model.StatusRecycled}
}
