package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mpedroso/acontece/audit"
	"github.com/mpedroso/acontece/feeds"
	"github.com/mpedroso/acontece/metrics"
	"github.com/mpedroso/acontece/model"
	"github.com/mpedroso/acontece/store"
	"github.com/mpedroso/acontece/utils"
	Logger "github.com/mpedroso/acontece/utils/log"
)

func (s *Server) HandleListSources(c *gin.Context) {
	sources, err := store.ListSources(s.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sources)
}

type sourcePayload struct {
	Name       string  `json:"name" binding:"required"`
	BaseUrl    string  `json:"base_url" binding:"required"`
	RssUrl     string  `json:"rss_url"`
	TrustScore float64 `json:"trust_score"`
	Active     bool    `json:"active"`
}

func (s *Server) HandleCreateSource(c *gin.Context) {
	var payload sourcePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	source := model.NewsSource{
		Id:         uuid.New().String(),
		Name:       payload.Name,
		BaseUrl:    payload.BaseUrl,
		RssUrl:     payload.RssUrl,
		TrustScore: payload.TrustScore,
		Active:     payload.Active,
	}
	if err := store.CreateSource(s.DB, &source); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, source)
}

func (s *Server) HandleUpdateSource(c *gin.Context) {
	var payload sourcePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	source := model.NewsSource{
		Id:         c.Param("id"),
		Name:       payload.Name,
		BaseUrl:    payload.BaseUrl,
		RssUrl:     payload.RssUrl,
		TrustScore: payload.TrustScore,
		Active:     payload.Active,
	}
	if err := store.UpdateSource(s.DB, &source); err != nil {
		status := http.StatusInternalServerError
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, source)
}

func (s *Server) HandleDeleteSource(c *gin.Context) {
	if err := store.DeleteSource(s.DB, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type taxonomyPayload struct {
	Name     string   `json:"name" binding:"required"`
	Keywords []string `json:"keywords"`
}

func (p *taxonomyPayload) keywordsJson() datatypes.JSON {
	raw, _ := json.Marshal(p.Keywords)
	return datatypes.JSON(raw)
}

func (s *Server) HandleListCategories(c *gin.Context) {
	categories, err := store.ListCategories(s.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) HandleCreateCategory(c *gin.Context) {
	var payload taxonomyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := model.Category{
		Id:       uuid.New().String(),
		Name:     payload.Name,
		Slug:     utils.Slugify(payload.Name),
		Keywords: payload.keywordsJson(),
	}
	if err := store.CreateCategory(s.DB, &category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) HandleDeleteCategory(c *gin.Context) {
	if err := store.DeleteCategory(s.DB, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) HandleListRegions(c *gin.Context) {
	regions, err := store.ListRegions(s.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, regions)
}

func (s *Server) HandleCreateRegion(c *gin.Context) {
	var payload taxonomyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	region := model.Region{
		Id:       uuid.New().String(),
		Name:     payload.Name,
		Slug:     utils.Slugify(payload.Name),
		Keywords: payload.keywordsJson(),
	}
	if err := store.CreateRegion(s.DB, &region); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, region)
}

func (s *Server) HandleDeleteRegion(c *gin.Context) {
	if err := store.DeleteRegion(s.DB, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleGetSettings returns every settings row, known keys parsed, unknown
// keys raw.
func (s *Server) HandleGetSettings(c *gin.Context) {
	settings, err := store.LoadSettingsSnapshot(s.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"auto_publish":    settings.AutoPublish,
		"scoring_weights": settings.Weights,
		"ingestion":       settings.Ingestion,
		"partners":        settings.Partners,
		"analytics":       settings.Analytics,
		"ads":             settings.Ads,
		"unknown":         settings.Unknown,
	})
}

func (s *Server) HandlePutSetting(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || !json.Valid(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a valid json value"})
		return
	}
	if err := store.UpsertSetting(s.DB, c.Param("key"), raw); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) HandleListArticles(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit := clampLimit(c.DefaultQuery("limit", "50"))
	articles, err := store.ListArticles(s.DB, c.Query("status"), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, articles)
}

var validStatuses = []string{model.StatusDraft, model.StatusPublished, model.StatusRecycled}

func (s *Server) HandleArticleStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ContainsString(validStatuses, payload.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: " + strings.Join(validStatuses, ", ")})
		return
	}
	if err := store.UpdateArticleStatus(s.DB, c.Param("id"), payload.Status); err != nil {
		status := http.StatusInternalServerError
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) HandleDeleteArticle(c *gin.Context) {
	if err := store.DeleteArticle(s.DB, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type reviewPayload struct {
	Title        string `json:"title"`
	Excerpt      string `json:"excerpt"`
	Content      string `json:"content"`
	ImageUrl     string `json:"image_url"`
	ImageCaption string `json:"image_caption"`
	SourceUrl    string `json:"source_url"`
	CategoryId   string `json:"category_id"`
	RegionId     string `json:"region_id"`
}

// HandleReviewArticle runs the advisory pre-publication review. It never
// touches persisted state; the verdict is surfaced verbatim to the editor.
func (s *Server) HandleReviewArticle(c *gin.Context) {
	var payload reviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verdict := audit.Review(audit.ReviewInput{
		Title:        payload.Title,
		Excerpt:      payload.Excerpt,
		Content:      payload.Content,
		ImageUrl:     payload.ImageUrl,
		ImageCaption: payload.ImageCaption,
		SourceUrl:    payload.SourceUrl,
		HasCategory:  payload.CategoryId != "",
		HasRegion:    payload.RegionId != "",
	})
	c.JSON(http.StatusOK, gin.H{
		"approved":   verdict.Approved,
		"violations": verdict.Violations,
		"message":    verdict.RefusalMessage(),
	})
}

func (s *Server) HandleRunIngest(c *gin.Context) {
	if s.Ingest == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ingestion is not configured on this server"})
		return
	}
	report, err := s.Ingest.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) HandleRunAudit(c *gin.Context) {
	if s.Auditor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit is not configured on this server"})
		return
	}
	report, err := s.Auditor.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.AuditDemotions.Add(float64(report.Demoted))
	c.JSON(http.StatusOK, report)
}

// HandlePublishSitemap renders the sitemap and uploads it to object storage.
func (s *Server) HandlePublishSitemap(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage is not configured on this server"})
		return
	}

	payload, err := feeds.BuildSitemap(s.DB, s.Setting.SITE_BASE_URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.Store.Put("sitemap.xml", "application/xml", strings.NewReader(payload)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	url := s.Store.GetUrlFromKey("sitemap.xml")
	Logger.Log.Info("sitemap published to ", url)
	c.JSON(http.StatusOK, gin.H{"url": url})
}
