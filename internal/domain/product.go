package domain

import "time"

// Extraction sources recorded on ProductRecord.Source
const (
	SourceStructuredData = "structured-data"
	SourceFallback       = "fallback"
)

// ProductRecord is the normalized result of extracting a product page
type ProductRecord struct {
	URL           string    `json:"url"`
	Name          string    `json:"name"`
	Price         string    `json:"price"`
	OriginalPrice string    `json:"originalPrice,omitempty"`
	DiscountLabel string    `json:"discountLabel,omitempty"`
	InStock       bool      `json:"inStock"`
	Seller        string    `json:"seller"`
	Rating        string    `json:"rating,omitempty"`
	ReviewCount   string    `json:"reviewCount,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Source        string    `json:"source"`
	ObservedAt    time.Time `json:"observedAt"`
}

// ExtractRequest is the body of an extraction request
type ExtractRequest struct {
	URL string `json:"url" binding:"required"`
}

// ErrorResponse is the body returned for any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
