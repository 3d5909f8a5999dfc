package domain

import "context"

// PageFetcher retrieves the raw markup of a product page
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// ProductSource turns a product URL into a ProductRecord.
// Implemented in-process by the extraction service and remotely by its HTTP client.
type ProductSource interface {
	Extract(ctx context.Context, rawURL string) (*ProductRecord, error)
}

// KeyValueStore defines the client-local persistence used by the watchlist
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
