package usecase

import "github.com/liiist/backend/internal/domain"

// ComposeSearchResults merges the fuzzy and lowest-price candidate sets for query into
// one distance-annotated response. query names the search being composed and does
// not influence the result.
//
// priceMatches must already exclude every id found in fuzzyMatches. When it is empty and
// there is more than one fuzzy match, the cheapest fuzzy match is copied into
// LowestPrice; it also stays in MostSimilar.
func ComposeSearchResults(
	query string,
	position domain.Position,
	fuzzyMatches []domain.CatalogMatch,
	priceMatches []domain.CatalogMatch,
) *domain.SearchResponse {
	lowest := priceMatches
	if len(priceMatches) == 0 && len(fuzzyMatches) > 1 {
		cheapest := cheapestMatch(fuzzyMatches)
		lowest = []domain.CatalogMatch{cheapest}
	}

	return &domain.SearchResponse{
		MostSimilar: annotateAll(position, fuzzyMatches),
		LowestPrice: annotateAll(position, lowest),
	}
}

// cheapestMatch returns the first match with the minimum price. A candidate only
// replaces the incumbent when strictly cheaper; any comparison involving NaN is false,
// so NaN prices behave as equal and the earlier element is kept. matches must be non-empty.
func cheapestMatch(matches []domain.CatalogMatch) domain.CatalogMatch {
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Price < best.Price {
			best = m
		}
	}
	return best
}
