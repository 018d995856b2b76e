package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/liiist/backend/config"
	"github.com/liiist/backend/internal/domain"
	"github.com/liiist/backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeCatalog is an in-memory domain.CatalogSearchClient
type fakeCatalog struct {
	offers map[string][]domain.CatalogMatch
	err    error
}

func (f *fakeCatalog) lookup(text string) ([]domain.CatalogMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.offers[text], nil
}

func (f *fakeCatalog) FuzzySearch(ctx context.Context, text string) ([]domain.CatalogMatch, error) {
	return f.lookup(text)
}

func (f *fakeCatalog) PriceSearch(ctx context.Context, text string, excludeIDs []string, position domain.Position) ([]domain.CatalogMatch, error) {
	return nil, nil
}

func (f *fakeCatalog) PriceSearchForItems(ctx context.Context, items []string, position domain.Position) (map[string][]domain.CatalogMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]domain.CatalogMatch, len(items))
	for _, item := range items {
		out[item] = f.offers[item]
	}
	return out, nil
}

func (f *fakeCatalog) NearbySearch(ctx context.Context, text string, position domain.Position) ([]domain.CatalogMatch, error) {
	return f.lookup(text)
}

func (f *fakeCatalog) ShopSearch(ctx context.Context, text, shop string, position domain.Position) ([]domain.CatalogMatch, error) {
	matches, err := f.lookup(text)
	if err != nil {
		return nil, err
	}
	var inShop []domain.CatalogMatch
	for _, m := range matches {
		if m.StoreLocation.StoreName == shop {
			inShop = append(inShop, m)
		}
	}
	return inShop, nil
}

// fakeStores is an in-memory domain.StoreCatalogRepository
type fakeStores struct {
	stores   []domain.Store
	products map[int][]domain.StoreProduct
	err      error
}

func (f *fakeStores) ListStores(ctx context.Context) ([]domain.Store, error) {
	return f.stores, f.err
}

func (f *fakeStores) ListProductsByStore(ctx context.Context, storeID int) ([]domain.StoreProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	products := f.products[storeID]
	if products == nil {
		products = []domain.StoreProduct{}
	}
	return products, nil
}

func offer(id, name string, price float64, store string) domain.CatalogMatch {
	return domain.CatalogMatch{
		ID:            id,
		Name:          name,
		Price:         price,
		StoreLocation: domain.StoreLocation{Lat: 45.47, Lon: 9.20, StoreName: store},
	}
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{offers: map[string][]domain.CatalogMatch{
		"milk":  {offer("m1", "Milk", 2.0, "A"), offer("m2", "Milk", 1.5, "B")},
		"bread": {offer("b1", "Bread", 3.0, "A")},
	}}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Cache:     config.CacheConfig{Type: "memory"},
		RateLimit: config.RateLimitConfig{PerIP: 1000},
	}
}

// setupTestRouter creates a test router backed by in-memory fakes
func setupTestRouter(catalog *fakeCatalog, stores domain.StoreCatalogRepository) *gin.Engine {
	service := usecase.NewSearchService(nil, catalog, usecase.SearchServiceConfig{})
	return SetupRouter(testConfig(), NewHandler(service, stores))
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const position = `"position":{"latitude":45.4642,"longitude":9.19}`

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(testCatalog(), nil)

	w := doJSON(t, router, "GET", "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "liiist-backend", resp["service"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		w := doJSON(t, router, method, "/health", "")
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("returns most similar and lowest price", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, router, "GET", "/api/v1/search?query=milk&position_latitude=45.4642&position_longitude=9.19", "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp domain.SearchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.MostSimilar, 2)
		require.Len(t, resp.LowestPrice, 1, "fallback picks the cheapest fuzzy match")
		assert.Equal(t, "m2", resp.LowestPrice[0].ID)
		require.NotNil(t, resp.LowestPrice[0].DistanceFromShopper)
	})

	t.Run("uses camelCase fields", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, router, "GET", "/api/v1/search?query=milk&position_latitude=45.4642&position_longitude=9.19", "")

		body := w.Body.String()
		assert.Contains(t, body, `"mostSimilar"`)
		assert.Contains(t, body, `"lowestPrice"`)
		assert.Contains(t, body, `"distanceFromShopper"`)
		assert.Contains(t, body, `"storeName"`)
	})

	t.Run("rejects missing parameters", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		paths := []string{
			"/api/v1/search?position_latitude=45&position_longitude=9",
			"/api/v1/search?query=milk",
			"/api/v1/search?query=milk&position_latitude=95&position_longitude=9",
			"/api/v1/search?query=milk&position_latitude=abc&position_longitude=9",
		}
		for _, path := range paths {
			w := doJSON(t, router, "GET", path, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
	})

	t.Run("hides upstream errors", func(t *testing.T) {
		router := setupTestRouter(&fakeCatalog{err: errors.New("connection refused")}, nil)

		w := doJSON(t, router, "GET", "/api/v1/search?query=milk&position_latitude=45&position_longitude=9", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decode(t, w)["error"])
	})

	t.Run("open breaker is service unavailable", func(t *testing.T) {
		unavailable := fmt.Errorf("%w: circuit breaker is open", domain.ErrCatalogUnavailable)
		router := setupTestRouter(&fakeCatalog{err: unavailable}, nil)

		w := doJSON(t, router, "GET", "/api/v1/search?query=milk&position_latitude=45&position_longitude=9", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCheapestStoreEndpoint(t *testing.T) {
	t.Run("returns full coverage store", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, router, "POST", "/api/v1/shopping-list/cheapest-store",
			`{"products":["milk","bread"],`+position+`}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp domain.CoverageResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "A", resp.Store)
		assert.InDelta(t, 5.0, resp.TotalPrice, 1e-9)
		assert.Empty(t, resp.MissingItemKeys)
		assert.Len(t, resp.MatchedProducts, 2)
	})

	t.Run("returns partial store with missing items", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, router, "POST", "/api/v1/shopping-list/cheapest-store",
			`{"products":["milk","eggs"],`+position+`}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp domain.CoverageResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "B", resp.Store)
		assert.Equal(t, []string{"eggs"}, resp.MissingItemKeys)
	})

	t.Run("returns null when nothing matches", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, router, "POST", "/api/v1/shopping-list/cheapest-store",
			`{"products":["caviar"],`+position+`}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
	})

	t.Run("rejects empty list", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, router, "POST", "/api/v1/shopping-list/cheapest-store",
			`{"products":[],`+position+`}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects item without searchable text", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, router, "POST", "/api/v1/shopping-list/cheapest-store",
			`{"products":["milk","!!"],`+position+`}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, router, "POST", "/api/v1/shopping-list/cheapest-store", `{"products":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	router := setupTestRouter(testCatalog(), nil)

	t.Run("product exists", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/products/exists", `{"product":"milk",`+position+`}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode(t, w)
		assert.Equal(t, true, resp["exists"])
		assert.NotNil(t, resp["details"])
	})

	t.Run("product missing", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/products/exists", `{"product":"caviar",`+position+`}`)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, false, resp["exists"])
		assert.Nil(t, resp["details"])
	})

	t.Run("product in shop", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/products/in-shop", `{"product":"milk","shop":"B",`+position+`}`)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, true, resp["exists"])
		assert.Equal(t, "B", resp["shop"])
	})

	t.Run("product in shop requires shop", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/products/in-shop", `{"product":"milk",`+position+`}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStoreEndpoints(t *testing.T) {
	city := "Milano"
	stores := &fakeStores{
		stores: []domain.Store{{ID: 1, Grocery: "Coop", Lat: 45.47, Lng: 9.20, City: &city}},
		products: map[int][]domain.StoreProduct{
			1: {{ID: 10, Name: "Latte", CurrentPrice: 1.29}},
		},
	}
	router := setupTestRouter(testCatalog(), stores)

	t.Run("lists stores", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/stores", "")

		require.Equal(t, http.StatusOK, w.Code)
		var resp []domain.Store
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Coop", resp[0].Grocery)
	})

	t.Run("lists store products", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/stores/1/products", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"currentPrice":1.29`)
	})

	t.Run("unknown store has no products", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/stores/99/products", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("invalid store id", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/v1/stores/abc/products", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("database failure", func(t *testing.T) {
		failing := setupTestRouter(testCatalog(), &fakeStores{err: fmt.Errorf("%w: timeout", domain.ErrUpstreamFailure)})

		w := doJSON(t, failing, "GET", "/api/v1/stores", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decode(t, w)["error"])
	})

	t.Run("not configured", func(t *testing.T) {
		unconfigured := setupTestRouter(testCatalog(), nil)

		w := doJSON(t, unconfigured, "GET", "/api/v1/stores", "")

		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(testCatalog(), nil)

	req := httptest.NewRequest("OPTIONS", "/api/v1/shopping-list/cheapest-store", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidRequest, http.StatusBadRequest},
		{fmt.Errorf("%w: blank", domain.ErrInvalidRequest), http.StatusBadRequest},
		{domain.ErrEmptyShoppingList, http.StatusBadRequest},
		{domain.ErrStoreNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: x: %w", domain.ErrUpstreamFailure, domain.ErrCatalogUnavailable), http.StatusServiceUnavailable},
		{domain.ErrUpstreamFailure, http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
