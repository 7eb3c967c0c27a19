// Package scrape fetches IRBank company pages and tokenizes their
// financial tables into the label+value row model the extractor
// consumes. Nothing downstream of this package touches markup.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://irbank.net"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client fetches company pages with a polite per-request delay so batch
// runs do not hammer the site.
type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration
}

// NewClient creates a client with the site defaults: 10s timeout, 2s
// delay between requests.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		delay:      2 * time.Second,
	}
}

// NewClientWith overrides base URL and delay (tests, mirrors).
func NewClientWith(baseURL string, delay time.Duration, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		delay:      delay,
	}
}

// FetchCompanyPage downloads the raw HTML of a company page by security
// code. The delay is applied before the request, not after, so single
// interactive lookups still pay it only once.
func (c *Client) FetchCompanyPage(ctx context.Context, code string) (string, error) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
