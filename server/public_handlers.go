package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpedroso/acontece/feeds"
	"github.com/mpedroso/acontece/model"
	"github.com/mpedroso/acontece/store"
)

const (
	defaultPartnerLimit = 20
	maxPartnerLimit     = 100
)

// PartnerArticle is the JSON shape served to syndication partners.
type PartnerArticle struct {
	Title       string     `json:"title"`
	Url         string     `json:"url"`
	Excerpt     string     `json:"excerpt"`
	Image       string     `json:"image"`
	Source      string     `json:"source"`
	Author      string     `json:"author,omitempty"`
	Category    string     `json:"category,omitempty"`
	City        string     `json:"city,omitempty"`
	PublishedAt *time.Time `json:"published_at"`
}

// clampLimit parses the limit query parameter into [1, 100].
func clampLimit(raw string) int {
	if raw == "" {
		return defaultPartnerLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return defaultPartnerLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > maxPartnerLimit {
		return maxPartnerLimit
	}
	return limit
}

// HandlePartnerArticles serves published articles for the fixed region the
// partner identifier maps to, newest first, optionally narrowed to a
// category slug.
func (s *Server) HandlePartnerArticles(c *gin.Context) {
	settings, err := store.LoadSettingsSnapshot(s.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fail to load settings"})
		return
	}

	regionSlug, ok := settings.Partners[c.Param("partner")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown partner"})
		return
	}
	region, err := store.GetRegionBySlug(s.DB, regionSlug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "partner region not found"})
		return
	}

	limit := clampLimit(c.Query("limit"))
	articles, err := store.PublishedForRegion(s.DB, region.Id, c.Query("category"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fail to load articles"})
		return
	}

	payload := make([]PartnerArticle, 0, len(articles))
	for i := range articles {
		payload = append(payload, s.toPartnerArticle(&articles[i]))
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) toPartnerArticle(article *model.Article) PartnerArticle {
	out := PartnerArticle{
		Title:       article.Title,
		Url:         feeds.ArticleUrl(s.Setting.SITE_BASE_URL, article),
		Excerpt:     article.Excerpt,
		Image:       article.ImageUrl,
		Source:      article.SourceName,
		PublishedAt: article.PublishedAt,
	}
	if article.Author != nil {
		out.Author = *article.Author
	}
	if article.Category != nil {
		out.Category = article.Category.Name
	}
	if article.Region != nil {
		out.City = article.Region.Name
	}
	return out
}

// HandleAdsTxt serves the ads.txt body from system settings.
func (s *Server) HandleAdsTxt(c *gin.Context) {
	settings, err := store.LoadSettingsSnapshot(s.DB)
	if err != nil {
		c.String(http.StatusInternalServerError, "fail to load settings")
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(settings.Ads.AdsTxt))
}
