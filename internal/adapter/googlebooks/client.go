// Package googlebooks resolves cover image URLs via the Google Books
// volumes search API.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"book-recommender/internal/domain"
	"book-recommender/internal/infra/httpclient"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	memoSize       = 1024
	memoTTL        = 24 * time.Hour
)

type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Client searches Google Books for cover thumbnails. Lookups are rate
// limited and memoized; repeated regenerations for the same key do not
// re-query identical covers.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	memo        *expirable.LRU[string, string]
	logger      *slog.Logger
}

// NewClient creates a Google Books client.
// Rate limited to roughly 100 requests per minute with a burst covering
// one full recommendation batch.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		httpClient:  httpclient.NewPooledClient(timeout),
		rateLimiter: rate.NewLimiter(rate.Every(600*time.Millisecond), 20),
		memo:        expirable.NewLRU[string, string](memoSize, nil, memoTTL),
		logger:      logger,
	}
}

// Resolve returns the thumbnail URL of the first volume matching
// "{title} {author}", or "" when nothing matches. Transport and decode
// failures are returned to the caller, which treats them as "no cover".
func (c *Client) Resolve(ctx context.Context, title, author string) (string, error) {
	query := strings.TrimSpace(title + " " + author)
	if cached, ok := c.memo.Get(query); ok {
		return cached, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	searchURL := c.baseURL + "/books/v1/volumes?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cover search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cover search returned %d", resp.StatusCode)
	}

	var volumes volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&volumes); err != nil {
		return "", fmt.Errorf("failed to decode cover search response: %w", err)
	}

	imageURL := ""
	if len(volumes.Items) > 0 {
		imageURL = volumes.Items[0].VolumeInfo.ImageLinks.Thumbnail
	}

	c.logger.Debug("cover_search_completed",
		slog.String("query", query),
		slog.Bool("found", imageURL != ""))

	// Negative results are memoized too; a missing cover stays missing
	// for the lifetime of the cache entry it decorates.
	c.memo.Add(query, imageURL)
	return imageURL, nil
}

var _ domain.CoverResolver = (*Client)(nil)
