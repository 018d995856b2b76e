package usecase

import (
	"github.com/liiist/backend/internal/domain"
	"github.com/liiist/backend/internal/geo"
)

// AnnotateDistances sets DistanceFromShopper on every match, in place
func AnnotateDistances(position domain.Position, matches []domain.AnnotatedMatch) {
	for i := range matches {
		d := distanceFrom(position, matches[i].StoreLocation)
		matches[i].DistanceFromShopper = &d
	}
}

// annotateAll wraps catalog matches and annotates them. The result is never nil,
// so empty lists serialize as [] rather than null.
func annotateAll(position domain.Position, matches []domain.CatalogMatch) []domain.AnnotatedMatch {
	annotated := make([]domain.AnnotatedMatch, len(matches))
	for i, m := range matches {
		annotated[i] = domain.AnnotatedMatch{CatalogMatch: m}
	}
	AnnotateDistances(position, annotated)
	return annotated
}

func annotateOne(position domain.Position, match domain.CatalogMatch) domain.AnnotatedMatch {
	d := distanceFrom(position, match.StoreLocation)
	return domain.AnnotatedMatch{CatalogMatch: match, DistanceFromShopper: &d}
}

func distanceFrom(position domain.Position, loc domain.StoreLocation) float64 {
	return geo.Distance(position.Latitude, position.Longitude, loc.Lat, loc.Lon)
}
