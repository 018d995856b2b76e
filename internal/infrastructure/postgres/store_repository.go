// Package postgres provides read access to the relational store catalog.
package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/liiist/backend/internal/domain"
)

const listStoresSQL = `
	SELECT id, grocery, lat, lng, street, city, zip_code, working_hours, picks_up_in_store
	FROM "Localization"
	ORDER BY id`

const listProductsByStoreSQL = `
	SELECT p.id, p.name, p.description, p.current_price, p.discount, p.price_for_kg, p.image_url
	FROM "Product" p
	WHERE p."localizationId" = $1
	ORDER BY p.id`

// StoreRepository implements domain.StoreCatalogRepository over a pgx pool
type StoreRepository struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*StoreRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &StoreRepository{pool: pool}, nil
}

// Close closes the connection pool
func (r *StoreRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// Ping checks the database is reachable
func (r *StoreRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ListStores returns every known store ordered by id
func (r *StoreRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.pool.Query(ctx, listStoresSQL)
	if err != nil {
		log.Printf("[STORES] List stores query failed: %v", err)
		return nil, fmt.Errorf("%w: list stores: %v", domain.ErrUpstreamFailure, err)
	}

	stores, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Store])
	if err != nil {
		log.Printf("[STORES] Scanning stores failed: %v", err)
		return nil, fmt.Errorf("%w: scan stores: %v", domain.ErrUpstreamFailure, err)
	}

	return stores, nil
}

// ListProductsByStore returns the products a store lists. An unknown store id
// yields an empty list.
func (r *StoreRepository) ListProductsByStore(ctx context.Context, storeID int) ([]domain.StoreProduct, error) {
	rows, err := r.pool.Query(ctx, listProductsByStoreSQL, storeID)
	if err != nil {
		log.Printf("[STORES] List products query failed for store %d: %v", storeID, err)
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrUpstreamFailure, err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.StoreProduct])
	if err != nil {
		log.Printf("[STORES] Scanning products failed for store %d: %v", storeID, err)
		return nil, fmt.Errorf("%w: scan products: %v", domain.ErrUpstreamFailure, err)
	}

	return products, nil
}
