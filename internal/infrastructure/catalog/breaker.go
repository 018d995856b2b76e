package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/liiist/backend/internal/domain"
	"github.com/sony/gobreaker"
)

// BreakerConfig controls when the catalog circuit opens
type BreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	TripRatio   float64
}

// minTripRequests is the sample size needed before the failure ratio can trip the breaker
const minTripRequests = 3

// BreakerClient wraps a CatalogSearchClient with circuit breaking. While the circuit
// is open calls fail fast with domain.ErrCatalogUnavailable.
type BreakerClient struct {
	client domain.CatalogSearchClient
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerClient creates a circuit breaker around client
func NewBreakerClient(client domain.CatalogSearchClient, cfg BreakerConfig) *BreakerClient {
	st := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minTripRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.TripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("[CATALOG] Circuit breaker %q changed from %s to %s", name, from, to)
		},
		// A cancelled request says nothing about the engine's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
	}
}

// State reports the current breaker state
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// FuzzySearch implements domain.CatalogSearchClient
func (b *BreakerClient) FuzzySearch(ctx context.Context, text string) ([]domain.CatalogMatch, error) {
	return b.matches(func() ([]domain.CatalogMatch, error) {
		return b.client.FuzzySearch(ctx, text)
	})
}

// PriceSearch implements domain.CatalogSearchClient
func (b *BreakerClient) PriceSearch(ctx context.Context, text string, excludeIDs []string, position domain.Position) ([]domain.CatalogMatch, error) {
	return b.matches(func() ([]domain.CatalogMatch, error) {
		return b.client.PriceSearch(ctx, text, excludeIDs, position)
	})
}

// PriceSearchForItems implements domain.CatalogSearchClient
func (b *BreakerClient) PriceSearchForItems(ctx context.Context, items []string, position domain.Position) (map[string][]domain.CatalogMatch, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.client.PriceSearchForItems(ctx, items, position)
	})
	if err != nil {
		return nil, translate(err)
	}
	return resp.(map[string][]domain.CatalogMatch), nil
}

// NearbySearch implements domain.CatalogSearchClient
func (b *BreakerClient) NearbySearch(ctx context.Context, text string, position domain.Position) ([]domain.CatalogMatch, error) {
	return b.matches(func() ([]domain.CatalogMatch, error) {
		return b.client.NearbySearch(ctx, text, position)
	})
}

// ShopSearch implements domain.CatalogSearchClient
func (b *BreakerClient) ShopSearch(ctx context.Context, text, shop string, position domain.Position) ([]domain.CatalogMatch, error) {
	return b.matches(func() ([]domain.CatalogMatch, error) {
		return b.client.ShopSearch(ctx, text, shop, position)
	})
}

func (b *BreakerClient) matches(call func() ([]domain.CatalogMatch, error)) ([]domain.CatalogMatch, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return call()
	})
	if err != nil {
		return nil, translate(err)
	}
	return resp.([]domain.CatalogMatch), nil
}

func translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return err
}
