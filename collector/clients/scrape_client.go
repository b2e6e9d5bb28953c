// Package clients holds the http clients for the pipeline's external
// collaborators.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

// ScrapeResult is the part of the scraping service response the pipeline
// consumes: the markdown body, the extracted links and a little metadata.
type ScrapeResult struct {
	Markdown string
	Links    []string
	Metadata ScrapeMetadata
}

type ScrapeMetadata struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	SourceURL string `json:"sourceURL"`
}

// ScrapeService is the boundary the ingestion handler depends on, so tests
// can substitute a canned implementation.
type ScrapeService interface {
	Scrape(ctx context.Context, url string) (*ScrapeResult, error)
}

// ScrapeClient calls the hosted scraping API. The service fetches and
// renders the page for us; we only ever see markdown plus links.
type ScrapeClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewScrapeClientFromEnv builds a client from SCRAPER_API_URL and
// SCRAPER_API_KEY. Missing credentials are a configuration error: the whole
// invocation must fail before any source is attempted.
func NewScrapeClientFromEnv() (*ScrapeClient, error) {
	endpoint := os.Getenv("SCRAPER_API_URL")
	apiKey := os.Getenv("SCRAPER_API_KEY")
	if endpoint == "" || apiKey == "" {
		return nil, errors.New("scraping service is not configured: SCRAPER_API_URL and SCRAPER_API_KEY are required")
	}
	return &ScrapeClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type scrapeRequest struct {
	Url             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string         `json:"markdown"`
		Links    []string       `json:"links"`
		Metadata ScrapeMetadata `json:"metadata"`
	} `json:"data"`
}

func (c *ScrapeClient) Scrape(ctx context.Context, url string) (*ScrapeResult, error) {
	payload, err := json.Marshal(scrapeRequest{
		Url:             url,
		Formats:         []string{"markdown", "links"},
		OnlyMainContent: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "scrape request failed for %s", url)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("scrape request for %s returned status %d: %s", url, res.StatusCode, string(body))
	}

	decoded := scrapeResponse{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrapf(err, "malformed scrape response for %s", url)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("scrape of %s was not successful: %s", url, decoded.Error)
	}

	return &ScrapeResult{
		Markdown: decoded.Data.Markdown,
		Links:    decoded.Data.Links,
		Metadata: decoded.Data.Metadata,
	}, nil
}
