package model

import (
	"time"

	"gorm.io/datatypes"
)

// Article lifecycle statuses. A recycled article requires manual re-approval
// before it can be published again.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusRecycled  = "recycled"
)

/*

Article is a single aggregated news item

Id: primary key
Title, Slug, Excerpt, Content: editorial content, Content may be HTML or raw scraped text
MetaDescription: optional SEO description
ImageUrl, ImageCaption: cover image and its mandatory caption

CategoryID:
Category: nullable "belongs-to" relation, an article may be unclassified
RegionID:
Region: nullable "belongs-to" relation

SourceName, SourceUrl: provenance of the scraped content
Author: nullable byline
ScrapedAt: when the content was fetched

Score: 0-10 quality score with two-decimal precision
ScoreCriteria: JSONB audit trail of how the score was derived

Status: draft | published | recycled
PublishedAt: must be non-null and not in the future for the article to be
publicly visible

NormalizedTitle has a unique index together with SourceName, closing the
duplicate-insert race between concurrent pipeline runs.
*/

type Article struct {
	Id              string `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Title           string
	NormalizedTitle string `gorm:"uniqueIndex:idx_articles_source_title"`
	Slug            string
	Excerpt         string
	Content         string
	MetaDescription string
	ImageUrl        string
	ImageCaption    string
	CategoryID      *string   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Category        *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	RegionID        *string   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Region          *Region   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	SourceName      string    `gorm:"uniqueIndex:idx_articles_source_title"`
	SourceUrl       string
	Author          *string
	ScrapedAt       time.Time
	Score           float64
	ScoreCriteria   datatypes.JSON
	Status          string `gorm:"index"`
	PublishedAt     *time.Time
}

// IsPubliclyVisible reports whether the article can be served on the public
// site and feeds at instant now.
func (a *Article) IsPubliclyVisible(now time.Time) bool {
	return a.Status == StatusPublished && a.PublishedAt != nil && !a.PublishedAt.After(now)
}
