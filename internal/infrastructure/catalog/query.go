package catalog

import (
	"fmt"

	"github.com/liiist/backend/internal/domain"
)

// Index field names. The indexer stores each offer's coordinates both under
// localization (for display) and as a geo_point in geoField (for filtering).
const (
	nameField        = "name"
	descriptionField = "description"
	priceField       = "price"
	groceryField     = "localization.grocery.keyword"
	geoField         = "location"
)

// query is an Elasticsearch request body
type query map[string]any

func geoPoint(position domain.Position) map[string]any {
	return map[string]any{"lat": position.Latitude, "lon": position.Longitude}
}

func withinRadius(position domain.Position, radiusKm float64) map[string]any {
	return map[string]any{
		"geo_distance": map[string]any{
			"distance": fmt.Sprintf("%gkm", radiusKm),
			geoField:   geoPoint(position),
		},
	}
}

func matchName(text string) map[string]any {
	return map[string]any{
		"match": map[string]any{
			nameField: map[string]any{"query": text, "operator": "and"},
		},
	}
}

func byPriceAsc() []any {
	return []any{map[string]any{priceField: map[string]any{"order": "asc"}}}
}

// fuzzyQuery ranks offers by textual similarity, tolerating typos
func fuzzyQuery(text string, size int) query {
	return query{
		"size": size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     text,
				"fields":    []string{nameField + "^3", descriptionField},
				"fuzziness": "AUTO",
			},
		},
	}
}

// priceQuery returns the cheapest offers matching text within radiusKm of the
// shopper, skipping excludeIDs
func priceQuery(text string, excludeIDs []string, position domain.Position, radiusKm float64, size int) query {
	boolQuery := map[string]any{
		"must":   []any{matchName(text)},
		"filter": []any{withinRadius(position, radiusKm)},
	}
	if len(excludeIDs) > 0 {
		boolQuery["must_not"] = []any{
			map[string]any{"ids": map[string]any{"values": excludeIDs}},
		}
	}
	return query{
		"size":  size,
		"query": map[string]any{"bool": boolQuery},
		"sort":  byPriceAsc(),
	}
}

// nearbyQuery returns offers matching text within radiusKm, nearest first
func nearbyQuery(text string, position domain.Position, radiusKm float64, size int) query {
	return query{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must":   []any{matchName(text)},
				"filter": []any{withinRadius(position, radiusKm)},
			},
		},
		"sort": []any{
			map[string]any{
				"_geo_distance": map[string]any{
					geoField: geoPoint(position),
					"order":  "asc",
					"unit":   "km",
				},
			},
		},
	}
}

// shopQuery returns the cheapest offers matching text in one shop within radiusKm
func shopQuery(text, shop string, position domain.Position, radiusKm float64, size int) query {
	return query{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{matchName(text)},
				"filter": []any{
					map[string]any{"term": map[string]any{groceryField: shop}},
					withinRadius(position, radiusKm),
				},
			},
		},
		"sort": byPriceAsc(),
	}
}
