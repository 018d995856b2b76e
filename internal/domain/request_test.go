package domain

import (
	"errors"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func validPosition() PositionRequest {
	return PositionRequest{Latitude: ptr(45.4642), Longitude: ptr(9.19)}
}

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req:  SearchRequest{Query: "milk", PositionRequest: validPosition()},
		},
		{
			name:    "missing query",
			req:     SearchRequest{PositionRequest: validPosition()},
			wantErr: true,
		},
		{
			name:    "missing latitude",
			req:     SearchRequest{Query: "milk", PositionRequest: PositionRequest{Longitude: ptr(9.19)}},
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			req:     SearchRequest{Query: "milk", PositionRequest: PositionRequest{Latitude: ptr(91), Longitude: ptr(9.19)}},
			wantErr: true,
		},
		{
			name:    "longitude out of range",
			req:     SearchRequest{Query: "milk", PositionRequest: PositionRequest{Latitude: ptr(45), Longitude: ptr(-181)}},
			wantErr: true,
		},
		{
			name: "zero coordinates are valid",
			req:  SearchRequest{Query: "milk", PositionRequest: PositionRequest{Latitude: ptr(0), Longitude: ptr(0)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Validate() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestShoppingListRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		products []string
		wantErr  bool
	}{
		{name: "valid list", products: []string{"milk", "bread"}},
		{name: "nil list", products: nil, wantErr: true},
		{name: "empty list", products: []string{}, wantErr: true},
		{name: "empty item", products: []string{"milk", ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ShoppingListRequest{Products: tt.products, Position: validPosition()}
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProductRequests_Validate(t *testing.T) {
	if err := (&ProductRequest{Product: "milk", Position: validPosition()}).Validate(); err != nil {
		t.Errorf("ProductRequest.Validate() error = %v", err)
	}
	if err := (&ProductRequest{Product: "milk"}).Validate(); err == nil {
		t.Error("ProductRequest without position should fail")
	}
	if err := (&ProductInShopRequest{Product: "milk", Position: validPosition()}).Validate(); err == nil {
		t.Error("ProductInShopRequest without shop should fail")
	}
	if err := (&ProductInShopRequest{Product: "milk", Shop: "Coop", Position: validPosition()}).Validate(); err != nil {
		t.Errorf("ProductInShopRequest.Validate() error = %v", err)
	}
}

func TestPositionRequest_Position(t *testing.T) {
	pos := validPosition().Position()
	if pos.Latitude != 45.4642 || pos.Longitude != 9.19 {
		t.Errorf("Position() = %+v", pos)
	}
	if got := (PositionRequest{}).Position(); got != (Position{}) {
		t.Errorf("empty Position() = %+v, want zero", got)
	}
}

func TestCoverageResult_FullCoverage(t *testing.T) {
	if !(&CoverageResult{MissingItemKeys: []string{}}).FullCoverage() {
		t.Error("no missing keys should be full coverage")
	}
	if (&CoverageResult{MissingItemKeys: []string{"eggs"}}).FullCoverage() {
		t.Error("missing keys should not be full coverage")
	}
}
