package domain

// Store is a physical shop as recorded in the relational catalog
type Store struct {
	ID             int     `json:"id"`
	Grocery        string  `json:"grocery"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Street         *string `json:"street"`
	City           *string `json:"city"`
	ZipCode        *string `json:"zipCode"`
	WorkingHours   *string `json:"workingHours"`
	PicksUpInStore *bool   `json:"picksUpInStore"`
}

// StoreProduct is a product listed by a single store
type StoreProduct struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	CurrentPrice float64  `json:"currentPrice"`
	Discount     *float64 `json:"discount"`
	PriceForKg   *float64 `json:"priceForKg"`
	ImageURL     *string  `json:"imageUrl"`
}
