package main

import (
	"log"

	"github.com/liiist/backend/config"
	"github.com/liiist/backend/internal/domain"
	"github.com/liiist/backend/internal/infrastructure/cache"
	"github.com/liiist/backend/internal/infrastructure/catalog"
	"github.com/liiist/backend/internal/usecase"
)

// newCatalogClient builds the search engine client, behind a circuit breaker
// unless disabled.
func newCatalogClient(cfg *config.Config) domain.CatalogSearchClient {
	client := catalog.NewClient(catalog.Config{
		BaseURL:           cfg.Search.BaseURL,
		Index:             cfg.Search.Index,
		Username:          cfg.Search.Username,
		Password:          cfg.Search.Password,
		FuzzySize:         cfg.Search.FuzzySize,
		PriceSize:         cfg.Search.PriceSize,
		NearbyRadiusKm:    cfg.Search.NearbyRadiusKm,
		Timeout:           cfg.Search.Timeout,
		MaxRetries:        cfg.Search.MaxRetries,
		RequestsPerSecond: cfg.RateLimit.Search,
	})
	client.SetDebug(cfg.Matching.EnableDebugLogging)

	if !cfg.Breaker.Enabled {
		log.Printf("Catalog circuit breaker disabled")
		return client
	}

	return catalog.NewBreakerClient(client, catalog.BreakerConfig{
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		TripRatio:   cfg.Breaker.TripRatio,
	})
}

// newSearchService wires the catalog client and the fuzzy-result cache into the
// search usecase. The returned cache must be closed by the caller.
func newSearchService(cfg *config.Config) (*usecase.SearchService, *cache.MemoryCache) {
	memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)

	service := usecase.NewSearchService(
		memoryCache,
		newCatalogClient(cfg),
		usecase.SearchServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	return service, memoryCache
}
