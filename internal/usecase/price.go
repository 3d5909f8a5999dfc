package usecase

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pricelens/backend/internal/domain"
)

var priceAmountRegex = regexp.MustCompile(`\d[\d.,]*`)

// PriceSummary describes how a tracked item's price moved over its history
type PriceSummary struct {
	First         string          `json:"first"`
	Latest        string          `json:"latest"`
	Lowest        string          `json:"lowest"`
	Highest       string          `json:"highest"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Observations  int             `json:"observations"`
}

// ParsePrice reads the amount of a display price such as "1.299,90 TL" or
// "199.90 TL". A comma is taken as the decimal separator when present, in which
// case dots are thousand separators.
func ParsePrice(price string) (decimal.Decimal, bool) {
	amount := priceAmountRegex.FindString(price)
	if amount == "" {
		return decimal.Zero, false
	}
	amount = strings.TrimRight(amount, ".,")

	if strings.Contains(amount, ",") {
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.ReplaceAll(amount, ",", ".")
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// SummarizeHistory computes a PriceSummary over the parseable entries of history.
// ok is false when no entry carries a readable price.
func SummarizeHistory(history []domain.PricePoint) (PriceSummary, bool) {
	var (
		summary                     PriceSummary
		first, latest, lowest, high decimal.Decimal
	)

	for _, point := range history {
		value, ok := ParsePrice(point.Price)
		if !ok {
			continue
		}

		if summary.Observations == 0 {
			first, lowest, high = value, value, value
			summary.First, summary.Lowest, summary.Highest = point.Price, point.Price, point.Price
		}
		if value.LessThan(lowest) {
			lowest = value
			summary.Lowest = point.Price
		}
		if value.GreaterThan(high) {
			high = value
			summary.Highest = point.Price
		}
		latest = value
		summary.Latest = point.Price
		summary.Observations++
	}

	if summary.Observations == 0 {
		return PriceSummary{}, false
	}

	if !first.IsZero() {
		summary.ChangePercent = latest.Sub(first).Div(first).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return summary, true
}
