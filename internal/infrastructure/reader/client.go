package reader

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/medcompare/backend/internal/domain"
	"golang.org/x/time/rate"
)

// userAgent is the fixed browser-identifying header sent on every proxy
// request; several pharmacies serve degraded pages to non-browser agents.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"

const maxAttempts = 3

// Client fetches target pages through the external text-extraction proxy.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a reader-proxy client. baseURL is the proxy prefix the
// target URL is appended to, e.g. "https://r.jina.ai/http://".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	// Keep outbound pacing polite: 2 req/sec with a burst covering one
	// full fan-out across the source registry.
	limiter := rate.NewLimiter(rate.Limit(2), 4)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// proxyURL builds the proxy request URL for a target page. The proxy prefix
// already carries the scheme, so the target's own scheme is stripped.
func (c *Client) proxyURL(targetURL string) string {
	stripped := strings.TrimPrefix(targetURL, "https://")
	stripped = strings.TrimPrefix(stripped, "http://")
	return c.baseURL + stripped
}

// exponentialBackoff returns the wait before retrying a failed attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes a single GET against the proxy with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	// Every comparison must reflect current prices
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrReaderFailure, err)
	}

	return resp, nil
}

// ReadPage fetches a target page's rendered text through the proxy.
// Transport errors are retried with backoff; a non-success proxy response is
// returned immediately since re-requesting the same page cannot fix it.
func (c *Client) ReadPage(ctx context.Context, targetURL string) (string, error) {
	reqURL := c.proxyURL(targetURL)

	if c.debug {
		log.Printf("[READER] GET %s", reqURL)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return "", err
			}
			if c.debug {
				log.Printf("[READER] transport error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			if attempt < maxAttempts {
				time.Sleep(exponentialBackoff(attempt))
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("%w: reading body: %v", domain.ErrReaderFailure, err)
		}

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[READER] proxy status %d for %s", resp.StatusCode, targetURL)
			}
			return "", fmt.Errorf("%w: status %d", domain.ErrReaderFailure, resp.StatusCode)
		}

		if c.debug {
			log.Printf("[READER] %d bytes for %s", len(body), targetURL)
		}
		return string(body), nil
	}

	return "", lastErr
}
