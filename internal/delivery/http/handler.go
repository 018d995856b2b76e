package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/liiist/backend/internal/domain"
)

// ProductSearcher is the search usecase the handlers depend on
type ProductSearcher interface {
	Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error)
	FindCheapestStore(ctx context.Context, request *domain.ShoppingListRequest) (*domain.CoverageResult, error)
	CheckProductExists(ctx context.Context, request *domain.ProductRequest) (*domain.ProductAvailability, error)
	FindProductInShop(ctx context.Context, request *domain.ProductInShopRequest) (*domain.ProductAvailability, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searcher ProductSearcher
	stores   domain.StoreCatalogRepository
}

// NewHandler creates a new HTTP handler. stores may be nil, in which case the
// store endpoints answer 501.
func NewHandler(searcher ProductSearcher, stores domain.StoreCatalogRepository) *Handler {
	return &Handler{
		searcher: searcher,
		stores:   stores,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "liiist-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles GET /search?query=&position_latitude=&position_longitude=
func (h *Handler) SearchProducts(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.searcher.Search(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CheckProductExists handles POST /products/exists
func (h *Handler) CheckProductExists(c *gin.Context) {
	var req domain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.searcher.CheckProductExists(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FindProductInShop handles POST /products/in-shop
func (h *Handler) FindProductInShop(c *gin.Context) {
	var req domain.ProductInShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.searcher.FindProductInShop(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FindCheapestStore handles POST /shopping-list/cheapest-store. The body is null
// when no store offers any of the items.
func (h *Handler) FindCheapestStore(c *gin.Context) {
	var req domain.ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.searcher.FindCheapestStore(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if result == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListStores handles GET /stores
func (h *Handler) ListStores(c *gin.Context) {
	if h.stores == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Store catalog not configured"})
		return
	}

	stores, err := h.stores.ListStores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stores)
}

// ListStoreProducts handles GET /stores/:id/products
func (h *Handler) ListStoreProducts(c *gin.Context) {
	if h.stores == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Store catalog not configured"})
		return
	}

	storeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store id must be an integer"})
		return
	}

	products, err := h.stores.ListProductsByStore(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// statusForError maps domain errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrEmptyShoppingList):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Server-side failures are logged and hidden
// behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	switch status {
	case http.StatusInternalServerError:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Internal server error"})
	case http.StatusServiceUnavailable:
		log.Printf("[HTTP] %s %s unavailable: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Search temporarily unavailable"})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}
