package handler

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpedroso/acontece/classify"
	"github.com/mpedroso/acontece/collector"
	"github.com/mpedroso/acontece/collector/clients"
	"github.com/mpedroso/acontece/file_store"
	"github.com/mpedroso/acontece/model"
	"github.com/mpedroso/acontece/publisher"
	"github.com/mpedroso/acontece/scoring"
	"github.com/mpedroso/acontece/store"
	"github.com/mpedroso/acontece/utils"
)

type fakeScraper struct {
	results map[string]*clients.ScrapeResult
	err     error
}

func (s *fakeScraper) Scrape(_ context.Context, url string) (*clients.ScrapeResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	result, ok := s.results[url]
	if !ok {
		return nil, errors.New("scrape request returned status 502")
	}
	return result, nil
}

type fakeFeeds struct {
	candidates map[string][]collector.Candidate
}

func (f *fakeFeeds) Collect(_ context.Context, feedUrl string) ([]collector.Candidate, error) {
	return f.candidates[feedUrl], nil
}

func testSettings() *store.SettingsSnapshot {
	return &store.SettingsSnapshot{
		AutoPublish: publisher.AutoPublish{Enabled: true, MinScore: 7.5},
		Weights:     scoring.DefaultWeights(),
		Ingestion:   store.IngestionSetting{ScrapeEnabled: true, RssEnabled: true},
	}
}

func richCandidate() collector.Candidate {
	return collector.Candidate{
		Title:        "Porto de Itajaí bate recorde de movimentação",
		Content:      strings.TrimSpace(strings.Repeat("palavra ", 250)),
		Excerpt:      "Terminal registra o melhor trimestre da história.",
		ImageUrl:     "https://cdn.site.com/porto.jpg",
		ImageCaption: "Cais do porto",
		SourceUrl:    "https://fonte.com/noticia",
		Author:       "Maria Souza",
	}
}

func TestBuildArticleScoresClassifiesAndPublishes(t *testing.T) {
	h := &IngestHandler{}
	source := &model.NewsSource{Name: "Fonte Confiável", TrustScore: 8}
	categories := []classify.Entry{{Id: "economia", Keywords: []string{"porto", "movimentação"}}}
	regions := []classify.Entry{{Id: "itajai", Keywords: []string{"Itajaí"}}}

	article, err := h.buildArticle(source, richCandidate(), testSettings(), categories, regions)
	require.NoError(t, err)

	// All six signals hold: trust 8, 250 words, image, author, excerpt > 20.
	assert.Equal(t, 10.0, article.Score)
	assert.Equal(t, model.StatusPublished, article.Status)
	require.NotNil(t, article.PublishedAt)

	require.NotNil(t, article.CategoryID)
	assert.Equal(t, "economia", *article.CategoryID)
	require.NotNil(t, article.RegionID)
	assert.Equal(t, "itajai", *article.RegionID)

	assert.Equal(t, "Fonte Confiável", article.SourceName)
	assert.Equal(t, utils.NormalizeTitle(article.Title), article.NormalizedTitle)
	assert.NotEmpty(t, article.Slug)
	require.NotNil(t, article.Author)
	assert.Equal(t, "Maria Souza", *article.Author)

	var criteria scoring.Criteria
	require.NoError(t, json.Unmarshal(article.ScoreCriteria, &criteria))
	assert.Equal(t, 9.0, criteria.RawScore)
	assert.Equal(t, 250, criteria.WordCount)
}

func TestBuildArticleLowScoreIsRecycled(t *testing.T) {
	h := &IngestHandler{}
	source := &model.NewsSource{Name: "Fonte Fraca", TrustScore: 2}
	candidate := collector.Candidate{
		Title:   "Nota curta sem imagem",
		Content: "pouco texto aqui",
	}

	article, err := h.buildArticle(source, candidate, testSettings(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusRecycled, article.Status)
	assert.Nil(t, article.PublishedAt)
	assert.Nil(t, article.CategoryID)
	assert.Nil(t, article.RegionID)
	assert.Nil(t, article.Author)
}

func TestBuildArticleAuthorlessCandidatePersistsNullAuthor(t *testing.T) {
	h := &IngestHandler{}
	candidate := richCandidate()
	candidate.Author = ""

	article, err := h.buildArticle(&model.NewsSource{Name: "Fonte", TrustScore: 8}, candidate, testSettings(), nil, nil)
	require.NoError(t, err)

	// Not a pointer to the empty string.
	assert.Nil(t, article.Author)
}

func TestBuildArticleKeepsFeedPublicationDate(t *testing.T) {
	h := &IngestHandler{}
	feedDate := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	candidate := richCandidate()
	candidate.PublishedAt = &feedDate

	article, err := h.buildArticle(&model.NewsSource{Name: "Fonte", TrustScore: 8}, candidate, testSettings(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, model.StatusPublished, article.Status)
	require.NotNil(t, article.PublishedAt)
	assert.Equal(t, feedDate, *article.PublishedAt)

	// A recycled article stays without a publication date even when the feed
	// item carried one.
	settings := testSettings()
	settings.AutoPublish.Enabled = false
	article, err = h.buildArticle(&model.NewsSource{Name: "Fonte", TrustScore: 8}, candidate, settings, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRecycled, article.Status)
	assert.Nil(t, article.PublishedAt)
}

func TestBuildArticleAutoPublishDisabled(t *testing.T) {
	h := &IngestHandler{}
	settings := testSettings()
	settings.AutoPublish.Enabled = false

	article, err := h.buildArticle(&model.NewsSource{Name: "Fonte", TrustScore: 9}, richCandidate(), settings, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusRecycled, article.Status)
	assert.Nil(t, article.PublishedAt)
}

func TestCollectSourcePrefersRssWhenConfigured(t *testing.T) {
	feedCandidates := []collector.Candidate{{Title: "Via RSS", Content: "corpo"}}
	h := &IngestHandler{
		Scraper: &fakeScraper{},
		Feeds:   &fakeFeeds{candidates: map[string][]collector.Candidate{"https://fonte.com/rss": feedCandidates}},
	}
	source := &model.NewsSource{Name: "Fonte", BaseUrl: "https://fonte.com", RssUrl: "https://fonte.com/rss"}

	candidates, err := h.collectSource(context.Background(), source, testSettings())
	require.NoError(t, err)
	assert.Equal(t, feedCandidates, candidates)
}

func TestCollectSourceScrapesAndSplits(t *testing.T) {
	markdown := "## Manchete da página\n\n" + strings.TrimSpace(strings.Repeat("palavra ", 60))
	h := &IngestHandler{
		Scraper: &fakeScraper{results: map[string]*clients.ScrapeResult{
			"https://fonte.com": {
				Markdown: markdown,
				Metadata: clients.ScrapeMetadata{Author: "Redação", SourceURL: "https://fonte.com/home"},
			},
		}},
		Feeds: &fakeFeeds{},
	}
	source := &model.NewsSource{Name: "Fonte", BaseUrl: "https://fonte.com"}

	candidates, err := h.collectSource(context.Background(), source, testSettings())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Manchete da página", candidates[0].Title)
	assert.Equal(t, "Redação", candidates[0].Author)
	assert.Equal(t, "https://fonte.com/home", candidates[0].SourceUrl)
}

func TestCollectSourceScrapingDisabled(t *testing.T) {
	h := &IngestHandler{Scraper: &fakeScraper{}, Feeds: &fakeFeeds{}}
	settings := testSettings()
	settings.Ingestion.ScrapeEnabled = false

	candidates, err := h.collectSource(context.Background(), &model.NewsSource{Name: "Fonte", BaseUrl: "https://fonte.com"}, settings)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestMirrorImage(t *testing.T) {
	h := &IngestHandler{Store: file_store.NewFakeFileStore()}

	// External url gets re-hosted under the store prefix.
	assert.Equal(t, "https://fake.store/https://cdn.site.com/foto.jpg",
		h.mirrorImage("https://cdn.site.com/foto.jpg"))
	// Already-hosted and empty urls pass through.
	assert.Equal(t, "https://fake.store/abc.jpg", h.mirrorImage("https://fake.store/abc.jpg"))
	assert.Equal(t, "", h.mirrorImage(""))

	// Without a store everything passes through.
	bare := &IngestHandler{}
	assert.Equal(t, "https://cdn.site.com/foto.jpg", bare.mirrorImage("https://cdn.site.com/foto.jpg"))
}

// End-to-end run against a real database: one healthy source, one failing
// source, duplicate suppression on the second run.
func TestRunEndToEnd(t *testing.T) {
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set, skipping integration test")
	}
	db, _ := utils.CreateTempDB(t)

	require.NoError(t, db.Create(&model.NewsSource{
		Id: "src-ok", Name: "Fonte Boa", BaseUrl: "https://boa.com", TrustScore: 8, Active: true,
	}).Error)
	require.NoError(t, db.Create(&model.NewsSource{
		Id: "src-bad", Name: "Fonte Ruim", BaseUrl: "https://ruim.com", TrustScore: 5, Active: true,
	}).Error)

	markdown := "## Obras no centro de Itajaí\n\n" +
		"![Obra](https://cdn.boa.com/obra.jpg)\n\n" +
		strings.TrimSpace(strings.Repeat("palavra ", 250))
	// ruim.com is absent from the fake, so its fetch fails and the source is
	// skipped without aborting the run.
	scraper := &fakeScraper{results: map[string]*clients.ScrapeResult{
		"https://boa.com": {Markdown: markdown, Metadata: clients.ScrapeMetadata{Author: "Redação"}},
	}}

	h := &IngestHandler{DB: db, Scraper: scraper, Feeds: &fakeFeeds{}}

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.SourcesProcessed)
	assert.Equal(t, 1, report.SourcesFailed)
	assert.Equal(t, 1, report.Inserted)

	// Second run: same candidate is a duplicate.
	report, err = h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 1, report.DuplicatesSkipped)
}
