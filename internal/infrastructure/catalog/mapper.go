package catalog

import (
	"github.com/liiist/backend/internal/domain"
)

// searchResponse is the subset of an Elasticsearch _search response we read
type searchResponse struct {
	Hits struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

type hit struct {
	ID     string      `json:"_id"`
	Source offerSource `json:"_source"`
}

// offerSource is one indexed offer as written by the product receiver
type offerSource struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	Discount     *float64     `json:"discount"`
	Localization localization `json:"localization"`
}

type localization struct {
	Grocery string  `json:"grocery"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// mapToCatalogMatch converts a search hit into a domain CatalogMatch
func mapToCatalogMatch(h hit) domain.CatalogMatch {
	return domain.CatalogMatch{
		ID:          h.ID,
		Name:        h.Source.Name,
		Description: h.Source.Description,
		Price:       h.Source.Price,
		Discount:    h.Source.Discount,
		StoreLocation: domain.StoreLocation{
			Lat:       h.Source.Localization.Lat,
			Lon:       h.Source.Localization.Lon,
			StoreName: h.Source.Localization.Grocery,
		},
	}
}

// mapHits converts hits in engine order. Hits without a store are dropped since
// they can't be attributed to any shop.
func mapHits(resp *searchResponse) []domain.CatalogMatch {
	matches := make([]domain.CatalogMatch, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		if h.Source.Localization.Grocery == "" {
			continue
		}
		matches = append(matches, mapToCatalogMatch(h))
	}
	return matches
}
