package audit

import (
	"context"
	"net/http"
	"time"
)

// ProbeResult is what a lightweight existence probe learns about a url.
type ProbeResult struct {
	StatusCode    int
	ContentType   string
	ContentLength int64
}

// ImageProber checks whether an image url is reachable without downloading
// the asset.
type ImageProber interface {
	Probe(ctx context.Context, url string) (ProbeResult, error)
}

// HttpImageProber probes with a HEAD request. A short timeout keeps a slow
// host from stalling the whole audit batch.
type HttpImageProber struct {
	Client *http.Client
}

func NewHttpImageProber() *HttpImageProber {
	return &HttpImageProber{Client: &http.Client{Timeout: 10 * time.Second}}
}

func (p *HttpImageProber) Probe(ctx context.Context, url string) (ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return ProbeResult{}, err
	}
	res, err := p.Client.Do(req)
	if err != nil {
		return ProbeResult{}, err
	}
	defer res.Body.Close()

	return ProbeResult{
		StatusCode:    res.StatusCode,
		ContentType:   res.Header.Get("Content-Type"),
		ContentLength: res.ContentLength,
	}, nil
}
