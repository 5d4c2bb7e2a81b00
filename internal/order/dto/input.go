package dto

import "github.com/fekuna/omnipos-stock-app/internal/order/cart"

type AddLineInput struct {
	CategoryID string `json:"category_id" validate:"notblank"`
	ItemID     string `json:"item_id" validate:"notblank"`
	Quantity   int    `json:"quantity" validate:"min=1"`
}

type SwipeInput struct {
	Points []cart.Point `json:"points" validate:"required,min=1"`
}
