package usecase

import (
	"sort"

	"github.com/liiist/backend/internal/domain"
)

// storeCoverage accumulates the cheapest offer per required key for one store
type storeCoverage struct {
	name string
	best map[string]domain.ShopOffer
}

func newStoreCoverage(name string) *storeCoverage {
	return &storeCoverage{name: name, best: make(map[string]domain.ShopOffer)}
}

// consider keeps offer if it is the first seen for its key or strictly cheaper than
// the incumbent. Equal (or NaN) prices keep the incumbent.
func (sc *storeCoverage) consider(offer domain.ShopOffer) {
	incumbent, ok := sc.best[offer.MatchedItemKey]
	if !ok || offer.Price < incumbent.Price {
		sc.best[offer.MatchedItemKey] = offer
	}
}

// result builds the CoverageResult for this store. Matched and missing keys follow
// requiredKeys order, and the total is summed in that order.
func (sc *storeCoverage) result(requiredKeys []string) *domain.CoverageResult {
	res := &domain.CoverageResult{
		Store:           sc.name,
		MatchedProducts: make([]domain.ShopOffer, 0, len(sc.best)),
		MissingItemKeys: []string{},
	}
	for _, key := range requiredKeys {
		offer, ok := sc.best[key]
		if !ok {
			res.MissingItemKeys = append(res.MissingItemKeys, key)
			continue
		}
		res.MatchedProducts = append(res.MatchedProducts, offer)
		res.TotalPrice += offer.Price
	}
	return res
}

// OptimizeCoverage picks the single store that best covers requestedItems.
//
// Offers are grouped by store and reduced to the cheapest offer per normalized item key.
// A store that offers every key wins over any store that does not; among full-coverage
// stores the lowest total wins. Without full coverage, the store matching the most keys
// wins, then the lowest total. Remaining ties go to the lexicographically smallest store
// name. Returns nil when no store offers any requested item.
//
// Offers are looked up by the exact requested item string; keys of perItemOffers that
// are not in requestedItems are ignored. Callers must reject empty lists beforehand.
func OptimizeCoverage(
	requestedItems []string,
	position domain.Position,
	perItemOffers map[string][]domain.CatalogMatch,
) *domain.CoverageResult {
	requiredKeys := requiredKeysOf(requestedItems)
	if len(requiredKeys) == 0 {
		return nil
	}

	stores := make(map[string]*storeCoverage)
	visited := make(map[string]bool, len(requestedItems))
	for _, item := range requestedItems {
		if visited[item] {
			continue
		}
		visited[item] = true

		key := NormalizeKey(item)
		for _, match := range perItemOffers[item] {
			offer := domain.ShopOffer{
				Store:           match.StoreLocation.StoreName,
				MatchedItemKey:  key,
				Price:           match.Price,
				ProductSnapshot: annotateOne(position, match),
			}
			sc, ok := stores[offer.Store]
			if !ok {
				sc = newStoreCoverage(offer.Store)
				stores[offer.Store] = sc
			}
			sc.consider(offer)
		}
	}

	names := make([]string, 0, len(stores))
	for name := range stores {
		names = append(names, name)
	}
	sort.Strings(names)

	var bestFull, bestPartial *domain.CoverageResult
	for _, name := range names {
		res := stores[name].result(requiredKeys)
		if res.FullCoverage() {
			if bestFull == nil || res.TotalPrice < bestFull.TotalPrice {
				bestFull = res
			}
			continue
		}
		if bestPartial == nil || betterPartial(res, bestPartial) {
			bestPartial = res
		}
	}

	if bestFull != nil {
		return bestFull
	}
	return bestPartial
}

// betterPartial reports whether candidate beats incumbent among partial-coverage stores
func betterPartial(candidate, incumbent *domain.CoverageResult) bool {
	if len(candidate.MatchedProducts) != len(incumbent.MatchedProducts) {
		return len(candidate.MatchedProducts) > len(incumbent.MatchedProducts)
	}
	return candidate.TotalPrice < incumbent.TotalPrice
}

// requiredKeysOf normalizes items into unique keys, in first-seen order
func requiredKeysOf(items []string) []string {
	seen := make(map[string]bool, len(items))
	keys := make([]string, 0, len(items))
	for _, item := range items {
		key := NormalizeKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
