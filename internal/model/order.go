package model

import "time"

// OrderLine is a cart entry. ID is the underlying item id.
type OrderLine struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
	Category   string `json:"category"`
	Quantity   int    `json:"quantity"`
	Unit       string `json:"type_of_unit"`
}

type OrderItem struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"type_of_unit"`
}

type Order struct {
	ID        string      `json:"id"`
	CompanyID string      `json:"company_id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}
