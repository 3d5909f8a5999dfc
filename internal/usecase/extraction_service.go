package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pricelens/backend/internal/domain"
)

// ExtractionServiceConfig holds configuration for the extraction service
type ExtractionServiceConfig struct {
	AllowedHost        string
	PlatformName       string
	CurrencySuffix     string
	EnableDebugLogging bool
}

// ExtractionService validates a product URL, fetches the page and extracts a
// ProductRecord. It keeps no state between calls.
type ExtractionService struct {
	fetcher     domain.PageFetcher
	extractor   *Extractor
	allowedHost string
}

var _ domain.ProductSource = (*ExtractionService)(nil)

// NewExtractionService creates a new extraction service with dependencies
func NewExtractionService(fetcher domain.PageFetcher, config ExtractionServiceConfig) *ExtractionService {
	allowedHost := config.AllowedHost
	if allowedHost == "" {
		allowedHost = "trendyol.com"
	}

	return &ExtractionService{
		fetcher: fetcher,
		extractor: NewExtractor(ExtractorConfig{
			PlatformName:       config.PlatformName,
			CurrencySuffix:     config.CurrencySuffix,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		allowedHost: allowedHost,
	}
}

// Extract looks up a product page.
// Flow: validate -> canonicalize -> fetch -> structured data / fallback -> record
func (s *ExtractionService) Extract(ctx context.Context, rawURL string) (*domain.ProductRecord, error) {
	canonicalURL, err := ValidateProductURL(rawURL, s.allowedHost)
	if err != nil {
		return nil, err
	}

	html, err := s.fetcher.Fetch(ctx, canonicalURL)
	if err != nil {
		if errors.Is(err, domain.ErrFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	record, err := s.extractor.Extract(html, canonicalURL)
	if err != nil {
		log.Printf("[Extract] extraction failed for %s: %v", canonicalURL, err)
		return nil, err
	}

	return record, nil
}
