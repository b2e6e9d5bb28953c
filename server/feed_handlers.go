package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpedroso/acontece/feeds"
	"github.com/mpedroso/acontece/store"
)

const feedContentType = "application/rss+xml; charset=utf-8"

func (s *Server) cacheTTL() time.Duration {
	return time.Duration(s.Setting.CACHE_TTL_SECOND) * time.Second
}

// serveCached wraps payload rendering with the optional redis cache.
func (s *Server) serveCached(c *gin.Context, key, contentType string, render func() (string, error)) {
	if s.Cache != nil && s.cacheTTL() > 0 {
		if payload, ok := s.Cache.GetCachedPayload(c.Request.Context(), key); ok {
			c.Data(http.StatusOK, contentType, []byte(payload))
			return
		}
	}

	payload, err := render()
	if err != nil {
		c.String(http.StatusInternalServerError, "fail to render "+key)
		return
	}

	if s.Cache != nil && s.cacheTTL() > 0 {
		s.Cache.SetCachedPayload(c.Request.Context(), key, payload, s.cacheTTL())
	}
	c.Data(http.StatusOK, contentType, []byte(payload))
}

func (s *Server) HandleRssFeed(c *gin.Context) {
	s.serveCached(c, "feed:global", feedContentType, func() (string, error) {
		return s.renderFeed("", "", feeds.ChannelInfo{
			Title:       "Acontece",
			Link:        s.Setting.SITE_BASE_URL,
			Description: "Últimas notícias de Santa Catarina",
		})
	})
}

func (s *Server) HandleCategoryFeed(c *gin.Context) {
	slug := c.Param("slug")
	category, err := store.GetCategoryBySlug(s.DB, slug)
	if err != nil {
		c.String(http.StatusNotFound, "unknown category")
		return
	}
	s.serveCached(c, "feed:category:"+slug, feedContentType, func() (string, error) {
		return s.renderFeed(slug, "", feeds.ChannelInfo{
			Title:       "Acontece: " + category.Name,
			Link:        s.Setting.SITE_BASE_URL + "/categoria/" + slug,
			Description: "Últimas notícias de " + category.Name,
		})
	})
}

func (s *Server) HandleRegionFeed(c *gin.Context) {
	slug := c.Param("slug")
	region, err := store.GetRegionBySlug(s.DB, slug)
	if err != nil {
		c.String(http.StatusNotFound, "unknown region")
		return
	}
	s.serveCached(c, "feed:region:"+slug, feedContentType, func() (string, error) {
		return s.renderFeed("", slug, feeds.ChannelInfo{
			Title:       "Acontece: " + region.Name,
			Link:        s.Setting.SITE_BASE_URL + "/regiao/" + slug,
			Description: "Últimas notícias de " + region.Name,
		})
	})
}

func (s *Server) renderFeed(categorySlug, regionSlug string, info feeds.ChannelInfo) (string, error) {
	articles, err := store.RecentPublished(s.DB, categorySlug, regionSlug, feeds.MaxFeedItems)
	if err != nil {
		return "", err
	}
	return feeds.RenderRss(info, articles, s.Setting.SITE_BASE_URL)
}

func (s *Server) HandleSitemap(c *gin.Context) {
	s.serveCached(c, "sitemap", "application/xml; charset=utf-8", func() (string, error) {
		return feeds.BuildSitemap(s.DB, s.Setting.SITE_BASE_URL)
	})
}
