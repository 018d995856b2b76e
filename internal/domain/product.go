package domain

// Position is a shopper's geographic coordinate (WGS 84, decimal degrees)
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StoreLocation is where a catalog offer can be bought
type StoreLocation struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	StoreName string  `json:"storeName"`
}

// CatalogMatch is a single product offer returned by the catalog search engine.
// It is read-only once produced by the search client.
type CatalogMatch struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         float64       `json:"price"`
	Discount      *float64      `json:"discount,omitempty"`
	StoreLocation StoreLocation `json:"storeLocation"`
}

// AnnotatedMatch is a CatalogMatch with its distance from the shopper in kilometers.
// DistanceFromShopper stays nil until the match has been annotated.
type AnnotatedMatch struct {
	CatalogMatch
	DistanceFromShopper *float64 `json:"distanceFromShopper,omitempty"`
}

// SearchResponse is the result of a single free-text product search
type SearchResponse struct {
	MostSimilar []AnnotatedMatch `json:"mostSimilar"`
	LowestPrice []AnnotatedMatch `json:"lowestPrice"`
}

// ShopOffer is the best candidate a store has for one requested item
type ShopOffer struct {
	Store           string         `json:"store"`
	MatchedItemKey  string         `json:"matchedItemKey"`
	Price           float64        `json:"price"`
	ProductSnapshot AnnotatedMatch `json:"productSnapshot"`
}

// CoverageResult is the store selected to fulfil a shopping list.
// MatchedProducts holds at most one offer per requested item key.
type CoverageResult struct {
	Store           string      `json:"store"`
	TotalPrice      float64     `json:"totalPrice"`
	MatchedProducts []ShopOffer `json:"matchedProducts"`
	MissingItemKeys []string    `json:"missingItemKeys"`
}

// FullCoverage reports whether the store offers every requested item
func (r *CoverageResult) FullCoverage() bool {
	return len(r.MissingItemKeys) == 0
}

// ProductAvailability answers whether a product can be bought near the shopper
type ProductAvailability struct {
	Product string          `json:"product"`
	Shop    string          `json:"shop,omitempty"`
	Exists  bool            `json:"exists"`
	Details *AnnotatedMatch `json:"details"`
}
