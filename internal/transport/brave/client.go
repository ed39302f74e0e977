// Package brave implements the web search capability against the Brave
// Web Search API.
package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shopscout-ai/shopscout/internal/domain"
	"github.com/shopscout-ai/shopscout/internal/metrics"
)

const (
	defaultBaseURL = "https://api.search.brave.com/res/v1"
	maxAttempts    = 3
	backoffStep    = 500 * time.Millisecond
)

// Client is a Brave Web Search API client with rate limiting and retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	provider   string
	logger     *zap.Logger
}

// Config holds the search provider settings.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *zap.Logger
}

// NewClient creates a Brave search client. Free-plan keys allow one request
// per second; the limiter enforces the configured rate across goroutines.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		provider:   "brave",
		logger:     cfg.Logger,
	}
}

// webSearchResponse mirrors the subset of the Brave response we consume.
type webSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Profile     struct {
				Name string `json:"name"`
			} `json:"profile"`
		} `json:"results"`
	} `json:"web"`
}

// Search implements domain.Searcher. Retries transient failures (429, 5xx,
// transport errors) up to maxAttempts with linear backoff. A 200 with no
// results is a valid empty response, not an error.
func (c *Client) Search(ctx context.Context, query string, count int) ([]domain.SearchHit, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		hits, retryable, err := c.doSearch(ctx, query, count)
		if err == nil {
			return hits, nil
		}
		lastErr = err
		if !retryable {
			break
		}

		c.logger.Warn("search attempt failed",
			zap.String("query", query),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * backoffStep):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *Client) doSearch(ctx context.Context, query string, count int) ([]domain.SearchHit, bool, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("search_lang", "en")
	params.Set("safesearch", "moderate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/web/search?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return nil, true, fmt.Errorf("search request: %w: %v", domain.ErrSearchProviderError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.SearchRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("search API status %d: %s: %w",
			resp.StatusCode, string(body), domain.ErrSearchProviderError)
	}

	var parsed webSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return nil, false, fmt.Errorf("decode search response: %w: %v", domain.ErrSearchProviderError, err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(c.provider, "success").Inc()
	metrics.SearchRequestDuration.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())

	hits := make([]domain.SearchHit, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		source := r.Profile.Name
		if source == "" {
			source = hostOf(r.URL)
		}
		hits = append(hits, domain.SearchHit{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Source:      source,
		})
	}
	return hits, false, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
