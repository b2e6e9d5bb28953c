package feeds

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpedroso/acontece/model"
)

const testSiteBase = "https://acontece.net.br"

func feedArticle() model.Article {
	publishedAt := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	author := "Maria Souza"
	return model.Article{
		Id:          "abc-123",
		Title:       "Porto amplia operações",
		Slug:        "porto-amplia-operacoes",
		Excerpt:     "Terminal confirma novos berços.",
		ImageUrl:    "https://cdn.acontece.net.br/porto.jpg",
		Author:      &author,
		Category:    &model.Category{Name: "Economia"},
		Region:      &model.Region{Name: "Itajaí"},
		Status:      model.StatusPublished,
		PublishedAt: &publishedAt,
	}
}

func TestRenderRssCompleteItem(t *testing.T) {
	info := ChannelInfo{Title: "Acontece", Link: testSiteBase, Description: "Notícias de Santa Catarina"}

	out, err := RenderRss(info, []model.Article{feedArticle()}, testSiteBase)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, xmlHeaderPrefix))
	assert.Contains(t, out, `<rss version="2.0"`)
	assert.Contains(t, out, `xmlns:dc="http://purl.org/dc/elements/1.1/"`)
	assert.Contains(t, out, "<title>Porto amplia operações</title>")
	assert.Contains(t, out, "<link>"+testSiteBase+"/noticia/porto-amplia-operacoes</link>")
	assert.Contains(t, out, `<guid isPermaLink="false">abc-123</guid>`)
	assert.Contains(t, out, "<pubDate>Fri, 10 May 2024 14:30:00 +0000</pubDate>")
	assert.Contains(t, out, "<category>Economia</category>")
	assert.Contains(t, out, "<category>Itajaí</category>")
	assert.Contains(t, out, "<dc:creator>Maria Souza</dc:creator>")
	assert.Contains(t, out, `<enclosure url="https://cdn.acontece.net.br/porto.jpg"`)
	assert.Contains(t, out, "<language>pt-BR</language>")
}

const xmlHeaderPrefix = `<?xml version="1.0" encoding="UTF-8"?>`

func TestRenderRssOptionalFieldsOmitted(t *testing.T) {
	article := feedArticle()
	article.Author = nil
	article.ImageUrl = ""

	out, err := RenderRss(ChannelInfo{Title: "Acontece"}, []model.Article{article}, testSiteBase)
	require.NoError(t, err)

	assert.NotContains(t, out, "dc:creator>")
	assert.NotContains(t, out, "<enclosure")
}

func TestRenderRssEmptyFeed(t *testing.T) {
	out, err := RenderRss(ChannelInfo{Title: "Acontece"}, nil, testSiteBase)
	require.NoError(t, err)

	assert.Contains(t, out, "<channel>")
	assert.NotContains(t, out, "<item>")
}

func TestRenderSitemap(t *testing.T) {
	out, err := RenderSitemap([]UrlEntry{
		{Loc: testSiteBase + "/", LastMod: "2024-05-10", ChangeFreq: "hourly", Priority: 1.0},
		{Loc: testSiteBase + "/noticia/porto", ChangeFreq: "never", Priority: 0.6},
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<loc>"+testSiteBase+"/</loc>")
	assert.Contains(t, out, "<lastmod>2024-05-10</lastmod>")
	assert.Contains(t, out, "<changefreq>never</changefreq>")
	assert.Contains(t, out, "<priority>0.6</priority>")
}
