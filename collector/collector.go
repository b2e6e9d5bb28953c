// Package collector turns configured news sources into candidate articles:
// scraped pages are split into sections, RSS feeds are mapped item by item.
package collector

import (
	"time"
)

// Candidate is one potential article extracted from a source, before scoring
// and classification.
type Candidate struct {
	Title        string
	Content      string
	Excerpt      string
	ImageUrl     string
	ImageCaption string
	SourceUrl    string
	Author       string
	PublishedAt  *time.Time
}
