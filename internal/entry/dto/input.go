package dto

type ApplyInput struct {
	Mode     string `json:"mode" validate:"oneof=buying selling"`
	Category string `json:"category" validate:"notblank"`
	ItemName string `json:"item_name" validate:"notblank"`
	// Quantity zero means one when buying.
	Quantity int `json:"quantity" validate:"gte=0"`
}

type ModeInput struct {
	Mode string `json:"mode" validate:"oneof=buying selling"`
}

type SelectInput struct {
	Name string `json:"name" validate:"notblank"`
}

type QuantityInput struct {
	Quantity int `json:"quantity"`
}

type StepInput struct {
	Delta int `json:"delta" validate:"ne=0"`
}
