package feeds

import (
	"encoding/xml"
	"time"

	"gorm.io/gorm"

	"github.com/mpedroso/acontece/model"
	"github.com/mpedroso/acontece/store"
)

// Article pages are fetched in batches; the total count is unbounded.
const sitemapBatchSize = 200

// UrlEntry is one <url> element of the sitemap.
type UrlEntry struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	Urls    []UrlEntry `xml:"url"`
}

// staticPages is the fixed set of non-article pages every sitemap carries,
// as paths relative to the site base url.
var staticPages = []struct {
	path       string
	changeFreq string
	priority   float64
}{
	{"/", "hourly", 1.0},
	{"/sobre", "monthly", 0.3},
	{"/contato", "monthly", 0.3},
	{"/fontes", "weekly", 0.4},
}

// BuildSitemap enumerates static pages, one entry per category, and one
// entry per publicly visible article with a slug.
func BuildSitemap(db *gorm.DB, siteBaseUrl string) (string, error) {
	now := time.Now().Format("2006-01-02")

	var entries []UrlEntry
	for _, page := range staticPages {
		entries = append(entries, UrlEntry{
			Loc:        siteBaseUrl + page.path,
			LastMod:    now,
			ChangeFreq: page.changeFreq,
			Priority:   page.priority,
		})
	}

	categories, err := store.ListCategories(db)
	if err != nil {
		return "", err
	}
	for _, category := range categories {
		entries = append(entries, UrlEntry{
			Loc:        siteBaseUrl + "/categoria/" + category.Slug,
			LastMod:    now,
			ChangeFreq: "daily",
			Priority:   0.7,
		})
	}

	for offset := 0; ; offset += sitemapBatchSize {
		batch, err := store.PublishedBatch(db, offset, sitemapBatchSize)
		if err != nil {
			return "", err
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			entries = append(entries, articleEntry(siteBaseUrl, &batch[i]))
		}
	}

	return RenderSitemap(entries)
}

func articleEntry(siteBaseUrl string, article *model.Article) UrlEntry {
	entry := UrlEntry{
		Loc:        ArticleUrl(siteBaseUrl, article),
		ChangeFreq: "never",
		Priority:   0.6,
	}
	if article.PublishedAt != nil {
		entry.LastMod = article.PublishedAt.Format("2006-01-02")
	}
	return entry
}

// RenderSitemap renders entries per the sitemap protocol.
func RenderSitemap(entries []UrlEntry) (string, error) {
	doc := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		Urls:  entries,
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}
