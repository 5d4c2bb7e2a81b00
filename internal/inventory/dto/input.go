package dto

import "github.com/shopspring/decimal"

// SaveItemInput creates the item when ID is empty and replaces it otherwise.
type SaveItemInput struct {
	ID       string           `json:"id"`
	Name     string           `json:"name" validate:"notblank"`
	Quantity int              `json:"quantity" validate:"gte=0"`
	Unit     string           `json:"unit"`
	Category string           `json:"category" validate:"notblank"`
	Price    *decimal.Decimal `json:"price"`
}

type ItemFilters struct {
	Category string
}

const (
	EventItemStockAdjusted = "ItemStockAdjusted"
	EventItemDeleted       = "ItemDeleted"
	EventInventoryChanged  = "InventoryChanged"
)

// StockEvent is a backend notification that stock changed outside this
// device.
type StockEvent struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	CompanyID string `json:"company_id"`
	ItemID    string `json:"item_id"`
	Delta     int    `json:"delta"`
}
