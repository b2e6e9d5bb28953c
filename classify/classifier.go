// Package classify assigns a category and a region to free text by keyword
// matching. Category and region matching intentionally use different
// algorithms: categories pick the best hit count over all keyword lists,
// regions short-circuit on the first list with any hit. The two must not be
// unified, the tie-break/first-match semantics differ and affect real
// classification outcomes when keyword lists overlap.
package classify

import (
	"strings"
)

// Entry is one keyword dictionary, either a category or a region.
type Entry struct {
	Id       string
	Keywords []string
}

// MatchCategory counts case-insensitive substring keyword hits per entry and
// returns the id of the entry with the strictly highest count. Ties resolve
// to the earliest entry in input order. Returns nil when no entry scores a
// single hit.
func MatchCategory(text string, categories []Entry) *string {
	lowered := strings.ToLower(text)

	var best *string
	bestHits := 0
	for i := range categories {
		hits := 0
		for _, kw := range categories[i].Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = &categories[i].Id
		}
	}
	return best
}

// MatchRegion returns the id of the first entry, in list order, with any
// keyword substring match. No scoring: the first hit wins regardless of how
// specific later entries' keywords are.
func MatchRegion(text string, regions []Entry) *string {
	lowered := strings.ToLower(text)

	for i := range regions {
		for _, kw := range regions[i].Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return &regions[i].Id
			}
		}
	}
	return nil
}
