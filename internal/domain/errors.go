package domain

import "errors"

var (
	// ErrValidation is returned when a URL is empty or does not belong to the commerce domain
	ErrValidation = errors.New("invalid product URL")

	// ErrFetch is returned when the product page could not be retrieved
	ErrFetch = errors.New("product page unreachable")

	// ErrExtraction is returned when the fetched page could not be turned into a product record
	ErrExtraction = errors.New("product extraction failed")

	// ErrAlreadyTracked is returned when adding a URL that is already on the watchlist
	ErrAlreadyTracked = errors.New("product already tracked")

	// ErrItemNotFound is returned when a watchlist item does not exist
	ErrItemNotFound = errors.New("tracked item not found")

	// ErrAmbiguousID is returned when an id prefix matches more than one item
	ErrAmbiguousID = errors.New("id prefix matches more than one item")

	// ErrKeyNotFound is returned when a key is absent from the key-value store
	ErrKeyNotFound = errors.New("key not found")
)
