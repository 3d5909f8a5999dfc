package page

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// maxPageSize caps how much of a product page is read
const maxPageSize = 10 << 20

// Options configures the header set and time budget of a Client
type Options struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

// Client fetches product pages with a browser-like header set
type Client struct {
	httpClient     *http.Client
	userAgent      string
	acceptLanguage string
	debug          bool
}

var _ domain.PageFetcher = (*Client)(nil)

// NewClient creates a new page client
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:      opts.UserAgent,
		acceptLanguage: opts.AcceptLanguage,
	}
}

// SetDebug toggles per-request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Fetch issues a single GET for pageURL and returns the body.
// Transport errors and non-2xx responses are reported as domain.ErrFetch.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", domain.ErrFetch, err)
	}
	c.setHeaders(req)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Fetch] request error for %s: %v", pageURL, err)
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if c.debug {
		log.Printf("[Fetch] %s -> %d in %s", pageURL, resp.StatusCode, time.Since(started))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[Fetch] upstream returned %d for %s", resp.StatusCode, pageURL)
		return "", fmt.Errorf("%w: status %d", domain.ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrFetch, err)
	}

	return string(body), nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.acceptLanguage != "" {
		req.Header.Set("Accept-Language", c.acceptLanguage)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
