package usecase

import (
	"fmt"
	"log"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// Placeholders used when a required field could not be recovered
const (
	NamePlaceholder  = "Product name not found"
	PricePlaceholder = "Price not found"
)

// ExtractorConfig holds configuration for the extraction pipeline
type ExtractorConfig struct {
	PlatformName       string
	CurrencySuffix     string
	EnableDebugLogging bool
}

// Extractor turns raw product page markup into a ProductRecord.
// Structured data is tried first, the fallback pattern chain second.
type Extractor struct {
	platformName   string
	currencySuffix string
	chains         fieldChains
	debug          bool
	now            func() time.Time
}

// NewExtractor creates a new extractor
func NewExtractor(config ExtractorConfig) *Extractor {
	platform := config.PlatformName
	if platform == "" {
		platform = "Trendyol"
	}
	suffix := config.CurrencySuffix
	if suffix == "" {
		suffix = "TL"
	}

	return &Extractor{
		platformName:   platform,
		currencySuffix: suffix,
		chains:         defaultFieldChains(),
		debug:          config.EnableDebugLogging,
		now:            time.Now,
	}
}

// Extract runs the pipeline over html. Any fault while parsing is reported as
// domain.ErrExtraction and no record is returned.
func (e *Extractor) Extract(html, canonicalURL string) (record *domain.ProductRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Extract] recovered from panic for %s: %v", canonicalURL, r)
			record = nil
			err = fmt.Errorf("%w: %v", domain.ErrExtraction, r)
		}
	}()

	page, err := newProductPage(html)
	if err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", domain.ErrExtraction, err)
	}

	if product, ok := findStructuredProduct(page.doc); ok {
		e.debugf("[Extract] structured data found for %s", canonicalURL)
		return e.fromStructuredData(product, canonicalURL), nil
	}

	e.debugf("[Extract] no structured data for %s, using fallback patterns", canonicalURL)
	return e.fromFallback(page, canonicalURL), nil
}

func (e *Extractor) fromStructuredData(product *structuredProduct, canonicalURL string) *domain.ProductRecord {
	record := &domain.ProductRecord{
		URL:        canonicalURL,
		Name:       product.Name,
		Price:      PricePlaceholder,
		InStock:    product.InStock,
		Seller:     product.Seller,
		ImageURL:   product.Image,
		Source:     domain.SourceStructuredData,
		ObservedAt: e.now(),
	}
	if record.Name == "" {
		record.Name = NamePlaceholder
	}
	if product.Price != "" {
		record.Price = e.withCurrency(product.Price)
	}
	if record.Seller == "" {
		record.Seller = e.platformName
	}
	return record
}

func (e *Extractor) fromFallback(page *productPage, canonicalURL string) *domain.ProductRecord {
	record := &domain.ProductRecord{
		URL:        canonicalURL,
		Name:       NamePlaceholder,
		Price:      PricePlaceholder,
		InStock:    !page.containsAny(outOfStockMarkers),
		Seller:     e.platformName,
		Source:     domain.SourceFallback,
		ObservedAt: e.now(),
	}

	if name, ok := firstMatch(page, e.chains.name...); ok {
		record.Name = name
	}
	if price, ok := firstMatch(page, e.chains.price...); ok {
		record.Price = e.withCurrency(price)
	}
	if original, ok := firstMatch(page, e.chains.originalPrice...); ok {
		record.OriginalPrice = e.withCurrency(original)
	}
	if discount, ok := firstMatch(page, e.chains.discount...); ok {
		record.DiscountLabel = "%" + discount
	}
	if seller, ok := firstMatch(page, e.chains.seller...); ok {
		record.Seller = seller
	}
	if image, ok := firstMatch(page, e.chains.image...); ok {
		record.ImageURL = image
	}
	if rating, ok := firstMatch(page, e.chains.rating...); ok {
		record.Rating = rating
	}
	if count, ok := firstMatch(page, e.chains.reviewCount...); ok {
		record.ReviewCount = count
	}

	e.debugf("[Extract] fallback result for %s: name=%q price=%q inStock=%v seller=%q",
		canonicalURL, record.Name, record.Price, record.InStock, record.Seller)
	return record
}

func (e *Extractor) withCurrency(amount string) string {
	return amount + " " + e.currencySuffix
}

func (e *Extractor) debugf(format string, args ...interface{}) {
	if e.debug {
		log.Printf(format, args...)
	}
}
