package collector

import (
	"context"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"

	"github.com/mpedroso/acontece/utils"
)

// Feeds fetched from sources with an RSS url, capped per run so a single
// high-volume feed cannot flood the pipeline.
const maxFeedItems = 30

// RssCollector maps feed items to candidates one to one. Unlike scraped
// pages there is no splitting: the feed already delimits articles.
type RssCollector struct {
	parser *gofeed.Parser
}

func NewRssCollector() *RssCollector {
	return &RssCollector{parser: gofeed.NewParser()}
}

func (r *RssCollector) Collect(ctx context.Context, feedUrl string) ([]Candidate, error) {
	feed, err := r.parser.ParseURLWithContext(feedUrl, ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to parse feed %s", feedUrl)
	}

	count := len(feed.Items)
	if count > maxFeedItems {
		count = maxFeedItems
	}

	candidates := make([]Candidate, 0, count)
	for _, item := range feed.Items[:count] {
		candidates = append(candidates, itemToCandidate(item))
	}
	return candidates, nil
}

func itemToCandidate(item *gofeed.Item) Candidate {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	candidate := Candidate{
		Title:       item.Title,
		Content:     content,
		Excerpt:     utils.StripHtmlTags(item.Description),
		SourceUrl:   item.Link,
		PublishedAt: itemPublishedAt(item),
	}

	if item.Author != nil {
		candidate.Author = item.Author.Name
	}
	if item.Image != nil {
		candidate.ImageUrl = item.Image.URL
		candidate.ImageCaption = item.Image.Title
	}
	// Some feeds only carry the image as an enclosure.
	if candidate.ImageUrl == "" {
		for _, enclosure := range item.Enclosures {
			if enclosure != nil && len(enclosure.Type) >= 6 && enclosure.Type[:6] == "image/" {
				candidate.ImageUrl = enclosure.URL
				break
			}
		}
	}
	return candidate
}

// itemPublishedAt prefers the parsed feed timestamp and falls back to
// dateparse for the loosely formatted date strings regional sites emit.
func itemPublishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	if item.Published != "" {
		if parsed, err := dateparse.ParseAny(item.Published); err == nil {
			return &parsed
		}
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed
	}
	return nil
}
