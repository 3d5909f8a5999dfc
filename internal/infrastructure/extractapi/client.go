package extractapi

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

	"github.com/pricelens/backend/internal/domain"
)

const extractPath = "/api/v1/products/extract"

// Client calls a remote extraction service
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ domain.ProductSource = (*Client)(nil)

// NewClient creates a new extraction service client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Extract posts rawURL to the service and decodes the returned ProductRecord.
// Error statuses are mapped back onto the domain sentinels.
func (c *Client) Extract(ctx context.Context, rawURL string) (*domain.ProductRecord, error) {
	payload, err := json.Marshal(domain.ExtractRequest{URL: rawURL})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+extractPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[ExtractAPI] request error: %v", err)
		return nil, fmt.Errorf("%w: extraction service unavailable: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var record domain.ProductRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrExtraction, err)
	}

	return &record, nil
}

func statusError(status int, body []byte) error {
	message := http.StatusText(status)
	var errResp domain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, message)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", domain.ErrFetch, message)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrExtraction, status, message)
	}
}
