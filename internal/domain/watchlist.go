package domain

import (
	"time"

	"github.com/google/uuid"
)

// PricePoint is a single observed price in a tracked item's history
type PricePoint struct {
	Price      string    `json:"price"`
	ObservedAt time.Time `json:"observedAt"`
}

// TrackedItem is a product on the local watchlist
type TrackedItem struct {
	ID                   uuid.UUID     `json:"id"`
	Product              ProductRecord `json:"product"`
	AddedAt              time.Time     `json:"addedAt"`
	NotificationsEnabled bool          `json:"notificationsEnabled"`
	PriceHistory         []PricePoint  `json:"priceHistory"`
}

// LastPrice returns the most recent price in the history, or "" if there is none.
func (t *TrackedItem) LastPrice() string {
	if len(t.PriceHistory) == 0 {
		return ""
	}
	return t.PriceHistory[len(t.PriceHistory)-1].Price
}

// WatchlistSnapshot is the serialized form of the whole watchlist
type WatchlistSnapshot struct {
	Version int           `json:"version"`
	Items   []TrackedItem `json:"items"`
}

// SnapshotVersion is the current WatchlistSnapshot format
const SnapshotVersion = 1
