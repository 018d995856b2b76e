package http

import (
	"github.com/gin-gonic/gin"
	"github.com/liiist/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/search", handler.SearchProducts)

		products := v1.Group("/products")
		{
			products.POST("/exists", handler.CheckProductExists)
			products.POST("/in-shop", handler.FindProductInShop)
		}

		v1.POST("/shopping-list/cheapest-store", handler.FindCheapestStore)

		stores := v1.Group("/stores")
		{
			stores.GET("", handler.ListStores)
			stores.GET("/:id/products", handler.ListStoreProducts)
		}
	}

	return router
}
