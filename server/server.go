// Package server wires the public read API, the feed/sitemap endpoints and
// the admin API into one gin engine.
package server

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mpedroso/acontece/app_setting"
	"github.com/mpedroso/acontece/audit"
	"github.com/mpedroso/acontece/collector/handler"
	"github.com/mpedroso/acontece/file_store"
	"github.com/mpedroso/acontece/server/middlewares"
	"github.com/mpedroso/acontece/utils"
)

// IngestRunner triggers one pipeline run, used by the manual admin trigger.
type IngestRunner interface {
	Run(ctx context.Context) (*handler.RunReport, error)
}

type Server struct {
	DB      *gorm.DB
	Setting app_setting.AppSetting

	// Optional collaborators. A nil Cache disables response caching, a nil
	// Ingest/Auditor disables the corresponding manual trigger.
	Cache   *utils.RedisClient
	Store   file_store.FileStore
	Ingest  IngestRunner
	Auditor *audit.PostPublishAuditor
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/api/partner/:partner/articles", s.HandlePartnerArticles)

	router.GET("/feeds/rss", s.HandleRssFeed)
	router.GET("/feeds/rss.xml", s.HandleRssFeed)
	router.GET("/feeds/category/:slug", s.HandleCategoryFeed)
	router.GET("/feeds/region/:slug", s.HandleRegionFeed)
	router.GET("/sitemap.xml", s.HandleSitemap)
	router.GET("/ads.txt", s.HandleAdsTxt)

	admin := router.Group("/admin", middlewares.AdminKey())
	{
		admin.GET("/sources", s.HandleListSources)
		admin.POST("/sources", s.HandleCreateSource)
		admin.PUT("/sources/:id", s.HandleUpdateSource)
		admin.DELETE("/sources/:id", s.HandleDeleteSource)

		admin.GET("/categories", s.HandleListCategories)
		admin.POST("/categories", s.HandleCreateCategory)
		admin.DELETE("/categories/:id", s.HandleDeleteCategory)

		admin.GET("/regions", s.HandleListRegions)
		admin.POST("/regions", s.HandleCreateRegion)
		admin.DELETE("/regions/:id", s.HandleDeleteRegion)

		admin.GET("/settings", s.HandleGetSettings)
		admin.PUT("/settings/:key", s.HandlePutSetting)

		admin.GET("/articles", s.HandleListArticles)
		admin.PUT("/articles/:id/status", s.HandleArticleStatus)
		admin.DELETE("/articles/:id", s.HandleDeleteArticle)
		admin.POST("/articles/review", s.HandleReviewArticle)

		admin.POST("/ingest/run", s.HandleRunIngest)
		admin.POST("/audit/run", s.HandleRunAudit)
		admin.POST("/sitemap/publish", s.HandlePublishSitemap)
	}

	return router
}
