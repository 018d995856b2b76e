package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/liiist/backend/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Config holds the catalog search engine connection settings
type Config struct {
	BaseURL  string
	Index    string
	Username string
	Password string

	FuzzySize      int
	PriceSize      int
	NearbyRadiusKm float64

	Timeout    time.Duration
	MaxRetries int

	// RequestsPerSecond bounds outbound calls; Burst defaults to the same value.
	RequestsPerSecond float64
	Burst             int

	// MaxConcurrentItems bounds the per-item fan-out of PriceSearchForItems.
	MaxConcurrentItems int
}

func (c Config) withDefaults() Config {
	if c.Index == "" {
		c.Index = "products"
	}
	if c.FuzzySize <= 0 {
		c.FuzzySize = 10
	}
	if c.PriceSize <= 0 {
		c.PriceSize = 10
	}
	if c.NearbyRadiusKm <= 0 {
		c.NearbyRadiusKm = 10
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 20
	}
	if c.Burst <= 0 {
		c.Burst = int(c.RequestsPerSecond)
		if c.Burst < 1 {
			c.Burst = 1
		}
	}
	if c.MaxConcurrentItems <= 0 {
		c.MaxConcurrentItems = 4
	}
	return c
}

// Client handles communication with the Elasticsearch product index
type Client struct {
	httpClient  *http.Client
	config      Config
	searchURL   string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a new catalog search client
func NewClient(config Config) *Client {
	config = config.withDefaults()

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		searchURL:   fmt.Sprintf("%s/%s/_search", strings.TrimRight(config.BaseURL, "/"), config.Index),
		rateLimiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables logging of every query sent to the engine
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt:
// 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// FuzzySearch returns offers whose name or description resembles query
func (c *Client) FuzzySearch(ctx context.Context, text string) ([]domain.CatalogMatch, error) {
	return c.search(ctx, "fuzzy", fuzzyQuery(text, c.config.FuzzySize))
}

// PriceSearch returns the cheapest offers for query near position, excluding excludeIDs
func (c *Client) PriceSearch(ctx context.Context, text string, excludeIDs []string, position domain.Position) ([]domain.CatalogMatch, error) {
	return c.search(ctx, "price", priceQuery(text, excludeIDs, position, c.config.NearbyRadiusKm, c.config.PriceSize))
}

// PriceSearchForItems runs a price search per item concurrently. Duplicate items are
// queried once. Any failing lookup fails the whole call.
func (c *Client) PriceSearchForItems(ctx context.Context, items []string, position domain.Position) (map[string][]domain.CatalogMatch, error) {
	unique := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		unique = append(unique, item)
	}

	results := make([][]domain.CatalogMatch, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.MaxConcurrentItems)
	for i, item := range unique {
		i, item := i, item
		g.Go(func() error {
			matches, err := c.PriceSearch(gctx, item, nil, position)
			if err != nil {
				return fmt.Errorf("item %q: %w", item, err)
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	offers := make(map[string][]domain.CatalogMatch, len(unique))
	for i, item := range unique {
		offers[item] = results[i]
	}
	return offers, nil
}

// NearbySearch returns offers matching query near position, nearest first
func (c *Client) NearbySearch(ctx context.Context, text string, position domain.Position) ([]domain.CatalogMatch, error) {
	return c.search(ctx, "nearby", nearbyQuery(text, position, c.config.NearbyRadiusKm, c.config.PriceSize))
}

// ShopSearch returns the cheapest offers matching query sold by shop near position
func (c *Client) ShopSearch(ctx context.Context, text, shop string, position domain.Position) ([]domain.CatalogMatch, error) {
	return c.search(ctx, "shop", shopQuery(text, shop, position, c.config.NearbyRadiusKm, c.config.PriceSize))
}

// search posts body to the index and maps the hits. Transport errors, 429 and 5xx
// responses are retried with exponential backoff; other statuses fail immediately.
func (c *Client) search(ctx context.Context, kind string, body query) ([]domain.CatalogMatch, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s query: %w", kind, err)
	}
	if c.debug {
		log.Printf("[CATALOG] %s query: %s", kind, payload)
	}

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[CATALOG] Rate limiter error: %v", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, payload)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[CATALOG] %s request error (attempt %d): %v", kind, attempt, err)
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: reading response: %v", domain.ErrUpstreamFailure, readErr)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			log.Printf("[CATALOG] %s search error (attempt %d) - Status: %d, Body: %s", kind, attempt, resp.StatusCode, string(respBody))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(respBody, &searchResp); err != nil {
			log.Printf("[CATALOG] JSON decode error: %v", err)
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
		}

		matches := mapHits(&searchResp)
		if c.debug {
			log.Printf("[CATALOG] %s search returned %d offers", kind, len(matches))
		}
		return matches, nil
	}

	log.Printf("[CATALOG] All %d attempts failed for %s search", c.config.MaxRetries, kind)
	return nil, lastErr
}

// doRequest executes a POST to the search endpoint with auth and JSON headers
func (c *Client) doRequest(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "liiist/1.0")
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	return resp, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
