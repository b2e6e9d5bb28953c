// Package feeds renders the public RSS 2.0 feed and the XML sitemap.
package feeds

import (
	"encoding/xml"
	"time"

	"github.com/mpedroso/acontece/model"
)

// MaxFeedItems caps every feed scope at the 50 most recent articles.
const MaxFeedItems = 50

// ChannelInfo describes the feed scope being rendered (global, category or
// region).
type ChannelInfo struct {
	Title       string
	Link        string
	Description string
}

type rssEnclosure struct {
	Url    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int64  `xml:"length,attr"`
}

type rssGuid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Guid        rssGuid       `xml:"guid"`
	PubDate     string        `xml:"pubDate"`
	Description string        `xml:"description"`
	Categories  []string      `xml:"category"`
	Creator     string        `xml:"dc:creator,omitempty"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssRoot struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	DcNs    string     `xml:"xmlns:dc,attr"`
	Channel rssChannel `xml:"channel"`
}

// ArticleUrl is the canonical public url of an article.
func ArticleUrl(siteBaseUrl string, article *model.Article) string {
	return siteBaseUrl + "/noticia/" + article.Slug
}

// RenderRss renders articles as an RSS 2.0 document. Articles are expected
// to be publicly visible, fully classified and already capped/ordered by the
// caller.
func RenderRss(info ChannelInfo, articles []model.Article, siteBaseUrl string) (string, error) {
	channel := rssChannel{
		Title:       info.Title,
		Link:        info.Link,
		Description: info.Description,
		Language:    "pt-BR",
	}

	for i := range articles {
		article := &articles[i]
		item := rssItem{
			Title:       article.Title,
			Link:        ArticleUrl(siteBaseUrl, article),
			Guid:        rssGuid{IsPermaLink: false, Value: article.Id},
			Description: article.Excerpt,
		}
		if article.PublishedAt != nil {
			item.PubDate = article.PublishedAt.Format(time.RFC1123Z)
		}
		if article.Category != nil {
			item.Categories = append(item.Categories, article.Category.Name)
		}
		if article.Region != nil {
			item.Categories = append(item.Categories, article.Region.Name)
		}
		if article.Author != nil {
			item.Creator = *article.Author
		}
		if article.ImageUrl != "" {
			item.Enclosure = &rssEnclosure{Url: article.ImageUrl, Type: "image/jpeg"}
		}
		channel.Items = append(channel.Items, item)
	}

	doc := rssRoot{
		Version: "2.0",
		DcNs:    "http://purl.org/dc/elements/1.1/",
		Channel: channel,
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}
