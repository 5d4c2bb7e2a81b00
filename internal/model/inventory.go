package model

import "github.com/shopspring/decimal"

// DefaultUnit labels items created by a buy entry that named no unit.
const DefaultUnit = "unit"

type Item struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Quantity   int                 `json:"quantity"`
	Unit       string              `json:"unit"`
	Category   string              `json:"category"`
	CategoryID string              `json:"category_id,omitempty"`
	Price      decimal.NullDecimal `json:"price"`
}

// CategoryTree is one node of GET /products/inventory.
type CategoryTree struct {
	Category
	Items []Item `json:"items"`
}
