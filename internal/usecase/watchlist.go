package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pricelens/backend/internal/domain"
)

// WatchlistConfig holds configuration for the watchlist
type WatchlistConfig struct {
	AllowedHost  string
	StorageKey   string
	RefreshDelay time.Duration
}

// RefreshReport summarizes a RefreshAll run
type RefreshReport struct {
	Checked int
	Changed int
	Failed  int
}

// Watchlist is the client-local list of tracked products. Each mutating
// operation computes the next list, persists it and only then adopts it.
// A Watchlist is owned by a single client and is not safe for concurrent use.
type Watchlist struct {
	store        domain.KeyValueStore
	source       domain.ProductSource
	allowedHost  string
	storageKey   string
	refreshDelay time.Duration
	items        []domain.TrackedItem
	now          func() time.Time
	newID        func() uuid.UUID
}

// NewWatchlist creates an empty watchlist; call Load to restore persisted items.
func NewWatchlist(store domain.KeyValueStore, source domain.ProductSource, config WatchlistConfig) *Watchlist {
	allowedHost := config.AllowedHost
	if allowedHost == "" {
		allowedHost = "trendyol.com"
	}
	storageKey := config.StorageKey
	if storageKey == "" {
		storageKey = "watchlist"
	}

	return &Watchlist{
		store:        store,
		source:       source,
		allowedHost:  allowedHost,
		storageKey:   storageKey,
		refreshDelay: config.RefreshDelay,
		now:          time.Now,
		newID:        uuid.New,
	}
}

// Load restores the list from storage. A missing key leaves the list empty.
func (w *Watchlist) Load(ctx context.Context) error {
	data, err := w.store.Get(ctx, w.storageKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		w.items = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	var snapshot domain.WatchlistSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("decode watchlist: %w", err)
	}

	w.items = snapshot.Items
	log.Printf("[Watchlist] loaded %d tracked items", len(w.items))
	return nil
}

// AllowedHost is the commerce domain product URLs must belong to.
func (w *Watchlist) AllowedHost() string {
	return w.allowedHost
}

// Items returns a copy of the tracked items in list order.
func (w *Watchlist) Items() []domain.TrackedItem {
	items := make([]domain.TrackedItem, len(w.items))
	for i, item := range w.items {
		items[i] = cloneItem(item)
	}
	return items
}

// Get returns a copy of the item with the given id.
func (w *Watchlist) Get(id uuid.UUID) (domain.TrackedItem, error) {
	idx := w.indexOf(id)
	if idx < 0 {
		return domain.TrackedItem{}, domain.ErrItemNotFound
	}
	return cloneItem(w.items[idx]), nil
}

// Resolve finds the item whose id starts with prefix.
func (w *Watchlist) Resolve(prefix string) (uuid.UUID, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return uuid.Nil, domain.ErrItemNotFound
	}

	var (
		match uuid.UUID
		found int
	)
	for _, item := range w.items {
		if strings.HasPrefix(item.ID.String(), prefix) {
			match = item.ID
			found++
		}
	}

	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, prefix)
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrAmbiguousID, prefix)
	}
}

// Add starts tracking rawURL. Empty, off-domain and already tracked URLs are
// rejected before the product source is called.
func (w *Watchlist) Add(ctx context.Context, rawURL string) (*domain.TrackedItem, error) {
	canonicalURL, err := ValidateProductURL(rawURL, w.allowedHost)
	if err != nil {
		return nil, err
	}

	for _, item := range w.items {
		if item.Product.URL == canonicalURL {
			return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyTracked, canonicalURL)
		}
	}

	record, err := w.source.Extract(ctx, canonicalURL)
	if err != nil {
		return nil, err
	}

	now := w.now()
	item := domain.TrackedItem{
		ID:                   w.newID(),
		Product:              *record,
		AddedAt:              now,
		NotificationsEnabled: true,
		PriceHistory: []domain.PricePoint{
			{Price: record.Price, ObservedAt: now},
		},
	}

	next := make([]domain.TrackedItem, 0, len(w.items)+1)
	next = append(next, item)
	next = append(next, w.items...)

	if err := w.commit(ctx, next); err != nil {
		return nil, err
	}

	log.Printf("[Watchlist] added %s (%s)", item.ID, canonicalURL)
	added := cloneItem(item)
	return &added, nil
}

// Refresh re-extracts a tracked item. A failed extraction is logged and leaves
// the item untouched. changed reports whether a new price was recorded.
func (w *Watchlist) Refresh(ctx context.Context, id uuid.UUID) (changed bool, err error) {
	idx := w.indexOf(id)
	if idx < 0 {
		return false, domain.ErrItemNotFound
	}

	changed, ok := w.refreshAt(ctx, idx)
	if !ok {
		return false, nil
	}
	return changed, nil
}

// RefreshAll refreshes every item in list order, one at a time, pausing for
// the configured delay after each refresh finishes.
func (w *Watchlist) RefreshAll(ctx context.Context) (RefreshReport, error) {
	var report RefreshReport

	ids := make([]uuid.UUID, len(w.items))
	for i, item := range w.items {
		ids[i] = item.ID
	}

	for i, id := range ids {
		if i > 0 {
			if err := pause(ctx, w.refreshDelay); err != nil {
				return report, err
			}
		} else if err := ctx.Err(); err != nil {
			return report, err
		}

		idx := w.indexOf(id)
		if idx < 0 {
			continue
		}

		changed, ok := w.refreshAt(ctx, idx)
		report.Checked++
		switch {
		case !ok:
			report.Failed++
		case changed:
			report.Changed++
		}
	}

	log.Printf("[Watchlist] refreshed %d items: %d changed, %d failed", report.Checked, report.Changed, report.Failed)
	return report, nil
}

// pause blocks for d measured from now. The limiter starts with its only
// token spent, so the next one arrives d later.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	limiter := rate.NewLimiter(rate.Every(d), 1)
	limiter.Allow()
	return limiter.Wait(ctx)
}

// Remove stops tracking an item. Storage is cleared once the list is empty.
func (w *Watchlist) Remove(ctx context.Context, id uuid.UUID) error {
	idx := w.indexOf(id)
	if idx < 0 {
		return domain.ErrItemNotFound
	}

	next := make([]domain.TrackedItem, 0, len(w.items)-1)
	next = append(next, w.items[:idx]...)
	next = append(next, w.items[idx+1:]...)

	return w.commit(ctx, next)
}

// ToggleNotifications flips the notification flag and returns its new value.
func (w *Watchlist) ToggleNotifications(ctx context.Context, id uuid.UUID) (bool, error) {
	idx := w.indexOf(id)
	if idx < 0 {
		return false, domain.ErrItemNotFound
	}

	next := w.Items()
	next[idx].NotificationsEnabled = !next[idx].NotificationsEnabled

	if err := w.commit(ctx, next); err != nil {
		return false, err
	}
	return next[idx].NotificationsEnabled, nil
}

// Summary computes the price summary of a tracked item.
func (w *Watchlist) Summary(id uuid.UUID) (PriceSummary, bool, error) {
	item, err := w.Get(id)
	if err != nil {
		return PriceSummary{}, false, err
	}
	summary, ok := SummarizeHistory(item.PriceHistory)
	return summary, ok, nil
}

// refreshAt refreshes the item at idx. ok is false when extraction or saving failed.
func (w *Watchlist) refreshAt(ctx context.Context, idx int) (changed, ok bool) {
	current := w.items[idx]

	record, err := w.source.Extract(ctx, current.Product.URL)
	if err != nil {
		log.Printf("[Watchlist] refresh failed for %s (%s): %v", current.ID, current.Product.URL, err)
		return false, false
	}

	next := w.Items()
	updated := &next[idx]
	updated.Product = *record
	if record.Price != current.LastPrice() {
		updated.PriceHistory = append(updated.PriceHistory, domain.PricePoint{
			Price:      record.Price,
			ObservedAt: record.ObservedAt,
		})
		changed = true
	}

	if err := w.commit(ctx, next); err != nil {
		log.Printf("[Watchlist] saving refresh of %s failed: %v", current.ID, err)
		return false, false
	}
	return changed, true
}

// commit persists next and only then makes it the current list.
func (w *Watchlist) commit(ctx context.Context, next []domain.TrackedItem) error {
	if err := w.persist(ctx, next); err != nil {
		return err
	}
	w.items = next
	return nil
}

func (w *Watchlist) persist(ctx context.Context, items []domain.TrackedItem) error {
	if len(items) == 0 {
		if err := w.store.Delete(ctx, w.storageKey); err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
			return fmt.Errorf("clear watchlist: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(domain.WatchlistSnapshot{
		Version: domain.SnapshotVersion,
		Items:   items,
	})
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}

	if err := w.store.Set(ctx, w.storageKey, data); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	return nil
}

func (w *Watchlist) indexOf(id uuid.UUID) int {
	for i, item := range w.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func cloneItem(item domain.TrackedItem) domain.TrackedItem {
	history := make([]domain.PricePoint, len(item.PriceHistory))
	copy(history, item.PriceHistory)
	item.PriceHistory = history
	return item
}
