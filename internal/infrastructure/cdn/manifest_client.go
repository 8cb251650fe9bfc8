// Package cdn fetches model manifests from the CloudFront distribution in
// front of the model bucket.
package cdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/privytune/backend/internal/core/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	maxManifestSize = 4 << 20
)

// ManifestClient reads <base>/<model_id>/manifest.json.
type ManifestClient struct {
	base string
	http *http.Client
}

// NewManifestClient accepts either a bare host (as CloudFront hands out,
// "d111111abcdef8.cloudfront.net") or a full base URL.
func NewManifestClient(baseURL string, timeout time.Duration) *ManifestClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &ManifestClient{base: base, http: &http.Client{Timeout: timeout}}
}

// ManifestURL is the public location of a model's manifest.
func (c *ManifestClient) ManifestURL(modelID string) string {
	return c.base + "/" + url.PathEscape(modelID) + "/manifest.json"
}

// FetchManifest downloads the manifest body. 403 and 404 both mean the object
// does not exist (S3 origins answer 403 for missing keys without ListBucket).
func (c *ManifestClient) FetchManifest(ctx context.Context, modelID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ManifestURL(modelID), nil)
	if err != nil {
		return nil, fmt.Errorf("build manifest request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch manifest: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrModelNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: manifest status %d", domain.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %w", domain.ErrUpstream, err)
	}
	if len(body) > maxManifestSize {
		return nil, fmt.Errorf("%w: manifest larger than %d bytes", domain.ErrUpstream, maxManifestSize)
	}
	return body, nil
}
