package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/liiist/backend/internal/domain"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// SearchService wires the catalog search engine to the result composer and the
// coverage optimizer. It holds no per-request state.
type SearchService struct {
	cache              domain.CacheRepository
	client             domain.CatalogSearchClient
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	cache domain.CacheRepository,
	client domain.CatalogSearchClient,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	return &SearchService{
		cache:              cache,
		client:             client,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Search runs a free-text product search near the shopper.
// Flow: fuzzy search (cached) -> lowest-price search excluding fuzzy ids -> compose.
// A failed fuzzy search is an upstream failure; a failed price search is logged and
// treated as empty.
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	query := SanitizeQuery(request.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is blank", domain.ErrInvalidRequest)
	}
	position := request.Position()

	fuzzy, err := s.fuzzyMatches(ctx, query)
	if err != nil {
		log.Printf("[SEARCH] Fuzzy search failed for %q: %v", query, err)
		return nil, fmt.Errorf("%w: fuzzy search: %w", domain.ErrUpstreamFailure, err)
	}

	excludeIDs := productIDs(fuzzy)
	lowest, err := s.client.PriceSearch(ctx, query, excludeIDs, position)
	if err != nil {
		log.Printf("[SEARCH] Lowest-price search failed for %q, continuing without it: %v", query, err)
		lowest = nil
	}

	if s.enableDebugLogging {
		log.Printf("[SEARCH] %q: %d fuzzy, %d lowest-price (excluded %d ids)",
			query, len(fuzzy), len(lowest), len(excludeIDs))
	}

	return ComposeSearchResults(query, position, fuzzy, lowest), nil
}

// FindCheapestStore returns the single store that best covers the shopping list, or
// nil when no store offers any of the items.
func (s *SearchService) FindCheapestStore(ctx context.Context, request *domain.ShoppingListRequest) (*domain.CoverageResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if len(request.Products) == 0 {
		return nil, domain.ErrEmptyShoppingList
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	items := make([]string, 0, len(request.Products))
	for _, product := range request.Products {
		item := SanitizeQuery(product)
		if NormalizeKey(item) == "" {
			return nil, fmt.Errorf("%w: item %q has no searchable text", domain.ErrInvalidRequest, product)
		}
		items = append(items, item)
	}
	position := request.Position.Position()

	offers, err := s.client.PriceSearchForItems(ctx, items, position)
	if err != nil {
		log.Printf("[COVERAGE] Offer lookup failed for %d items: %v", len(items), err)
		return nil, fmt.Errorf("%w: offer lookup: %w", domain.ErrUpstreamFailure, err)
	}

	result := OptimizeCoverage(items, position, offers)
	if result == nil {
		log.Printf("[COVERAGE] No store offers any of %d requested items", len(items))
		return nil, nil
	}

	if !result.FullCoverage() {
		log.Printf("[COVERAGE] Partial store %q missing items: %v", result.Store, result.MissingItemKeys)
	} else if s.enableDebugLogging {
		log.Printf("[COVERAGE] Store %q covers all %d items for %.2f", result.Store, len(result.MatchedProducts), result.TotalPrice)
	}

	return result, nil
}

// CheckProductExists reports the nearest offer of a product around the shopper
func (s *SearchService) CheckProductExists(ctx context.Context, request *domain.ProductRequest) (*domain.ProductAvailability, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	product := SanitizeQuery(request.Product)
	if product == "" {
		return nil, fmt.Errorf("%w: product is blank", domain.ErrInvalidRequest)
	}
	position := request.Position.Position()

	matches, err := s.client.NearbySearch(ctx, product, position)
	if err != nil {
		log.Printf("[SEARCH] Nearby search failed for %q: %v", product, err)
		return nil, fmt.Errorf("%w: nearby search: %w", domain.ErrUpstreamFailure, err)
	}

	return availability(product, "", position, matches), nil
}

// FindProductInShop reports whether a product is offered by the given shop
func (s *SearchService) FindProductInShop(ctx context.Context, request *domain.ProductInShopRequest) (*domain.ProductAvailability, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	product := SanitizeQuery(request.Product)
	if product == "" {
		return nil, fmt.Errorf("%w: product is blank", domain.ErrInvalidRequest)
	}
	position := request.Position.Position()

	matches, err := s.client.ShopSearch(ctx, product, request.Shop, position)
	if err != nil {
		log.Printf("[SEARCH] Shop search failed for %q in %q: %v", product, request.Shop, err)
		return nil, fmt.Errorf("%w: shop search: %w", domain.ErrUpstreamFailure, err)
	}

	return availability(product, request.Shop, position, matches), nil
}

func availability(product, shop string, position domain.Position, matches []domain.CatalogMatch) *domain.ProductAvailability {
	result := &domain.ProductAvailability{Product: product, Shop: shop}
	if len(matches) == 0 {
		return result
	}
	details := annotateOne(position, matches[0])
	result.Exists = true
	result.Details = &details
	return result
}

// fuzzyMatches returns cached fuzzy results for query, or fetches and caches them.
// Cache errors never fail the search.
func (s *SearchService) fuzzyMatches(ctx context.Context, query string) ([]domain.CatalogMatch, error) {
	cacheKey := fuzzyCacheKey(query)

	if cached, ok := s.getFromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	matches, err := s.client.FuzzySearch(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := s.setInCache(ctx, cacheKey, matches); err != nil {
		log.Printf("[SEARCH] Failed to cache fuzzy results for %q: %v", query, err)
	}

	return matches, nil
}

// fuzzyCacheKey creates a normalized cache key for a fuzzy query.
// Format: "fuzzy:{normalizer_version}:{normalized_query}"
func fuzzyCacheKey(query string) string {
	return fmt.Sprintf("fuzzy:%s:%s", NormalizerVersion, NormalizeKey(query))
}

func (s *SearchService) getFromCache(ctx context.Context, key string) ([]domain.CatalogMatch, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var matches []domain.CatalogMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		log.Printf("[SEARCH] Discarding unreadable cache entry %q: %v", key, err)
		return nil, false
	}
	return matches, true
}

func (s *SearchService) setInCache(ctx context.Context, key string, matches []domain.CatalogMatch) error {
	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}

// productIDs returns the unique ids of matches, sorted so the exclusion list sent to
// the search engine is stable.
func productIDs(matches []domain.CatalogMatch) []string {
	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.ID == "" || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids
}
