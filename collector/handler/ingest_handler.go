// Package handler drives one ingestion run: fetch every active source, split
// into candidates, score, classify, decide and persist.
package handler

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mpedroso/acontece/classify"
	"github.com/mpedroso/acontece/collector"
	"github.com/mpedroso/acontece/collector/clients"
	"github.com/mpedroso/acontece/file_store"
	"github.com/mpedroso/acontece/metrics"
	"github.com/mpedroso/acontece/model"
	"github.com/mpedroso/acontece/publisher"
	"github.com/mpedroso/acontece/scoring"
	"github.com/mpedroso/acontece/store"
	"github.com/mpedroso/acontece/utils"
	Logger "github.com/mpedroso/acontece/utils/log"
)

// FeedCollector is the RSS side of ingestion, injectable for tests.
type FeedCollector interface {
	Collect(ctx context.Context, feedUrl string) ([]collector.Candidate, error)
}

// RunReport summarizes one pipeline invocation.
type RunReport struct {
	SourcesProcessed  int `json:"sources_processed"`
	SourcesFailed     int `json:"sources_failed"`
	CandidatesSeen    int `json:"candidates_seen"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	Inserted          int `json:"inserted"`
	Published         int `json:"published"`
	Recycled          int `json:"recycled"`
}

// IngestHandler holds the pipeline's collaborators. One handler per
// invocation; the settings snapshot is loaded at the start of Run and never
// refreshed mid-run.
type IngestHandler struct {
	DB      *gorm.DB
	Scraper clients.ScrapeService
	Feeds   FeedCollector

	// Optional. When set, external candidate images are re-hosted in the
	// bucket so published pages never hotlink source sites.
	Store file_store.FileStore
}

// Run executes one sequential ingestion pass. Sources are processed one at a
// time; a failing source is logged and skipped, it never aborts the run.
// Within a source, a failing candidate insert is logged and its siblings
// still attempt insertion.
func (h *IngestHandler) Run(ctx context.Context) (*RunReport, error) {
	settings, err := store.LoadSettingsSnapshot(h.DB)
	if err != nil {
		return nil, err
	}
	categories, err := store.CategoryEntries(h.DB)
	if err != nil {
		return nil, err
	}
	regions, err := store.RegionEntries(h.DB)
	if err != nil {
		return nil, err
	}
	sources, err := store.ActiveSources(h.DB)
	if err != nil {
		return nil, err
	}

	report := &RunReport{}
	for i := range sources {
		source := &sources[i]
		candidates, err := h.collectSource(ctx, source, settings)
		if err != nil {
			Logger.Log.Errorf("fail to collect source %q: %s", source.Name, err)
			metrics.SourcesFailed.Inc()
			report.SourcesFailed++
			continue
		}
		metrics.SourcesProcessed.Inc()
		report.SourcesProcessed++

		for _, candidate := range candidates {
			metrics.CandidatesSeen.Inc()
			report.CandidatesSeen++
			h.processCandidate(source, candidate, settings, categories, regions, report)
		}
	}

	Logger.Log.Infof("ingestion run finished: %d/%d sources, %d inserted (%d published, %d recycled), %d duplicates",
		report.SourcesProcessed, len(sources), report.Inserted, report.Published, report.Recycled, report.DuplicatesSkipped)
	return report, nil
}

// collectSource prefers the RSS feed when the source has one and feeds are
// enabled, otherwise scrapes and splits the source page.
func (h *IngestHandler) collectSource(ctx context.Context, source *model.NewsSource, settings *store.SettingsSnapshot) ([]collector.Candidate, error) {
	if source.RssUrl != "" && settings.Ingestion.RssEnabled {
		return h.Feeds.Collect(ctx, source.RssUrl)
	}
	if !settings.Ingestion.ScrapeEnabled {
		Logger.Log.Infof("scraping disabled, skipping source %q", source.Name)
		return nil, nil
	}

	result, err := h.Scraper.Scrape(ctx, source.BaseUrl)
	if err != nil {
		return nil, err
	}

	candidates := collector.SplitSections(result.Markdown)
	for i := range candidates {
		if candidates[i].SourceUrl == "" {
			candidates[i].SourceUrl = canonicalSourceUrl(result, source.BaseUrl)
		}
		if candidates[i].Author == "" {
			candidates[i].Author = result.Metadata.Author
		}
	}
	return candidates, nil
}

func canonicalSourceUrl(result *clients.ScrapeResult, fallback string) string {
	if result.Metadata.SourceURL != "" {
		return result.Metadata.SourceURL
	}
	return fallback
}

func (h *IngestHandler) processCandidate(
	source *model.NewsSource,
	candidate collector.Candidate,
	settings *store.SettingsSnapshot,
	categories, regions []classify.Entry,
	report *RunReport,
) {
	if strings.TrimSpace(candidate.Title) == "" {
		return
	}

	exists, err := store.TitleExists(h.DB, source.Name, candidate.Title)
	if err != nil {
		Logger.Log.Errorf("fail duplicate check for %q from %q: %s", candidate.Title, source.Name, err)
		return
	}
	if exists {
		metrics.DuplicatesSkipped.Inc()
		report.DuplicatesSkipped++
		return
	}

	article, err := h.buildArticle(source, candidate, settings, categories, regions)
	if err != nil {
		Logger.Log.Errorf("fail to build article %q from %q: %s", candidate.Title, source.Name, err)
		return
	}

	// An insert error (the unique index catching a racing duplicate included)
	// skips this candidate only.
	if err := store.InsertArticle(h.DB, article); err != nil {
		Logger.Log.Errorf("fail to insert article %q from %q: %s", article.Title, source.Name, err)
		return
	}

	metrics.ArticlesInserted.WithLabelValues(article.Status).Inc()
	report.Inserted++
	switch article.Status {
	case model.StatusPublished:
		report.Published++
	case model.StatusRecycled:
		report.Recycled++
	}
}

func (h *IngestHandler) buildArticle(
	source *model.NewsSource,
	candidate collector.Candidate,
	settings *store.SettingsSnapshot,
	categories, regions []classify.Entry,
) (*model.Article, error) {
	score, criteria := scoring.Score(scoring.Candidate{
		Title:      candidate.Title,
		Content:    candidate.Content,
		Excerpt:    candidate.Excerpt,
		ImageUrl:   candidate.ImageUrl,
		Author:     candidate.Author,
		TrustScore: source.TrustScore,
	}, settings.Weights)

	criteriaJson, err := json.Marshal(criteria)
	if err != nil {
		return nil, err
	}

	article := &model.Article{}
	if err := copier.Copy(article, &candidate); err != nil {
		return nil, err
	}

	article.Id = uuid.New().String()
	article.NormalizedTitle = utils.NormalizeTitle(candidate.Title)
	article.Slug = utils.Slugify(candidate.Title)
	article.MetaDescription = candidate.Excerpt
	article.SourceName = source.Name
	article.ScrapedAt = time.Now()
	article.Score = score
	article.ScoreCriteria = datatypes.JSON(criteriaJson)
	// copier maps the string Author into the pointer field even when empty;
	// an authorless candidate must persist NULL.
	article.Author = nil
	if candidate.Author != "" {
		author := candidate.Author
		article.Author = &author
	}

	article.ImageUrl = h.mirrorImage(candidate.ImageUrl)

	classifyText := candidate.Title + " " + candidate.Content
	article.CategoryID = classify.MatchCategory(classifyText, categories)
	article.RegionID = classify.MatchRegion(classifyText, regions)

	decision := publisher.Decide(score, settings.AutoPublish, time.Now())
	article.Status = decision.Status
	article.PublishedAt = decision.PublishedAt
	// A feed item carries the source's own publication time; prefer it over
	// the decision timestamp when publishing.
	if article.Status == model.StatusPublished && candidate.PublishedAt != nil {
		article.PublishedAt = candidate.PublishedAt
	}
	return article, nil
}

// mirrorImage re-hosts an external image in the bucket and returns its public
// url. A failed upload keeps the original url; the post-publish audit will
// catch it if the original is unreachable too.
func (h *IngestHandler) mirrorImage(imageUrl string) string {
	if h.Store == nil || imageUrl == "" || strings.HasPrefix(imageUrl, h.Store.PublicUrlPrefix()) {
		return imageUrl
	}
	key, err := h.Store.FetchAndStore(imageUrl, "")
	if err != nil {
		Logger.Log.Warnf("fail to mirror image %q: %s", imageUrl, err)
		return imageUrl
	}
	return h.Store.GetUrlFromKey(key)
}
