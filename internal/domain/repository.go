package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching serialized values
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogSearchClient defines the interface for the external product search engine
type CatalogSearchClient interface {
	// FuzzySearch returns products whose name or description approximately matches query.
	FuzzySearch(ctx context.Context, query string) ([]CatalogMatch, error)

	// PriceSearch returns products matching query near position, cheapest first,
	// skipping every product id in excludeIDs.
	PriceSearch(ctx context.Context, query string, excludeIDs []string, position Position) ([]CatalogMatch, error)

	// PriceSearchForItems runs a price search for every item and keys the offers by item.
	PriceSearchForItems(ctx context.Context, items []string, position Position) (map[string][]CatalogMatch, error)

	// NearbySearch returns products matching query ordered by distance from position.
	NearbySearch(ctx context.Context, query string, position Position) ([]CatalogMatch, error)

	// ShopSearch is NearbySearch restricted to a single store name.
	ShopSearch(ctx context.Context, query, shop string, position Position) ([]CatalogMatch, error)
}

// StoreCatalogRepository defines plain lookups against the relational store catalog
type StoreCatalogRepository interface {
	ListStores(ctx context.Context) ([]Store, error)
	ListProductsByStore(ctx context.Context, storeID int) ([]StoreProduct, error)
}
