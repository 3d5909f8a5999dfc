package usecase

import (
	"regexp"
)

// Compiled patterns for the fallback chain, grouped by field
var (
	// Price
	quotedPricePattern     = regexp.MustCompile(`"discountedPrice"\s*:\s*\{[^}]*?"text"\s*:\s*"([^"]+)"`)
	discountedPricePattern = regexp.MustCompile(`(?s)class="[^"]*\bprc-dsc\b[^"]*"[^>]*>\s*([^<]+?)\s*<`)
	originalPricePattern   = regexp.MustCompile(`(?s)class="[^"]*\bprc-org\b[^"]*"[^>]*>\s*([^<]+?)\s*<`)
	priceCleanupPattern    = regexp.MustCompile(`[^\d,]`)

	// Discount
	discountNearPricePattern = regexp.MustCompile(`(?s)prc-dsc.{0,160}?%\s*(\d{1,3})`)
	discountRatioPattern     = regexp.MustCompile(`"discountRatio"\s*:\s*"?(\d{1,3})`)

	// Seller
	sellerNamePattern    = regexp.MustCompile(`"sellerName"\s*:\s*"([^"]+)"`)
	merchantNamePattern  = regexp.MustCompile(`"merchantName"\s*:\s*"([^"]+)"`)
	merchantTextSelector = ".merchant-text, .seller-name-text"

	// Image
	imageURLPattern = regexp.MustCompile(`"imageUrl"\s*:\s*"(https?://[^"]+)"`)

	// Rating
	ratingPattern      = regexp.MustCompile(`"averageRating"\s*:\s*"?(\d+(?:\.\d+)?)`)
	reviewCountPattern = regexp.MustCompile(`"totalRatingCount"\s*:\s*"?(\d+)`)
)

// outOfStockMarkers force inStock=false when any appears in the lower-cased document
var outOfStockMarkers = []string{
	"sold-out",
	"soldout",
	"tükendi",
	"stokta yok",
	"stok yok",
	`"instock":false`,
	`"isinstock":false`,
	`"availability":"outofstock"`,
	"schema.org/outofstock",
	"add-to-basket-button-disabled",
	"disabled-add-to-basket",
	"notify-me-button",
	"gelince haber ver",
}

// fieldChains lists the ordered matchers tried for each fallback field
type fieldChains struct {
	name          []matcher
	price         []matcher
	originalPrice []matcher
	discount      []matcher
	seller        []matcher
	image         []matcher
	rating        []matcher
	reviewCount   []matcher
}

func defaultFieldChains() fieldChains {
	return fieldChains{
		name: []matcher{
			selectorText("h1.pr-new-br"),
			selectorText("h1"),
			selectorText("title"),
		},
		price: []matcher{
			transformed(patternMatcher(quotedPricePattern), normalizePrice),
			transformed(patternMatcher(discountedPricePattern), normalizePrice),
			transformed(patternMatcher(originalPricePattern), normalizePrice),
		},
		originalPrice: []matcher{
			transformed(patternMatcher(originalPricePattern), normalizePrice),
		},
		discount: []matcher{
			patternMatcher(discountNearPricePattern),
			patternMatcher(discountRatioPattern),
		},
		seller: []matcher{
			patternMatcher(sellerNamePattern),
			selectorText(merchantTextSelector),
			patternMatcher(merchantNamePattern),
		},
		image: []matcher{
			patternMatcher(imageURLPattern),
			selectorAttr(`meta[property="og:image"]`, "content"),
		},
		rating: []matcher{
			patternMatcher(ratingPattern),
		},
		reviewCount: []matcher{
			patternMatcher(reviewCountPattern),
		},
	}
}

// normalizePrice keeps digits and commas of a captured display price.
// ok is false when nothing numeric is left.
func normalizePrice(captured string) (string, bool) {
	cleaned := priceCleanupPattern.ReplaceAllString(captured, "")
	return cleaned, cleaned != ""
}
