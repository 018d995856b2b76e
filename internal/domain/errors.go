package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrEmptyShoppingList is returned when a shopping list has no usable items
	ErrEmptyShoppingList = errors.New("shopping list is empty")

	// ErrUpstreamFailure is returned when the search engine or the database fails
	ErrUpstreamFailure = errors.New("upstream dependency failed")

	// ErrCatalogUnavailable is returned while the catalog circuit breaker is open
	ErrCatalogUnavailable = errors.New("catalog search temporarily unavailable")

	// ErrStoreNotFound is returned when a store lookup has no match
	ErrStoreNotFound = errors.New("store not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
