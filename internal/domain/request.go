package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// requestValidator reads the same `binding` tags gin validates on the HTTP path,
// so requests built outside gin (CLI, tests) follow identical rules.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// PositionRequest is a shopper position as received from clients
type PositionRequest struct {
	Latitude  *float64 `json:"latitude" form:"position_latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" form:"position_longitude" binding:"required,longitude"`
}

// Position converts the request into a domain Position. Call Validate first.
func (p PositionRequest) Position() Position {
	var pos Position
	if p.Latitude != nil {
		pos.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		pos.Longitude = *p.Longitude
	}
	return pos
}

// SearchRequest represents a free-text product search
type SearchRequest struct {
	Query string `json:"query" form:"query" binding:"required"`
	PositionRequest
}

// Validate validates the SearchRequest
func (r *SearchRequest) Validate() error {
	return validateRequest(r)
}

// ProductRequest asks whether a product is available near the shopper
type ProductRequest struct {
	Product  string          `json:"product" binding:"required"`
	Position PositionRequest `json:"position"`
}

// Validate validates the ProductRequest
func (r *ProductRequest) Validate() error {
	return validateRequest(r)
}

// ProductInShopRequest asks whether a product is available in a given shop
type ProductInShopRequest struct {
	Product  string          `json:"product" binding:"required"`
	Shop     string          `json:"shop" binding:"required"`
	Position PositionRequest `json:"position"`
}

// Validate validates the ProductInShopRequest
func (r *ProductInShopRequest) Validate() error {
	return validateRequest(r)
}

// ShoppingListRequest asks for the cheapest single store covering a list of items
type ShoppingListRequest struct {
	Products []string        `json:"products" binding:"required,min=1,dive,required"`
	Position PositionRequest `json:"position"`
}

// Validate validates the ShoppingListRequest
func (r *ShoppingListRequest) Validate() error {
	return validateRequest(r)
}

func validateRequest(r any) error {
	if err := requestValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
