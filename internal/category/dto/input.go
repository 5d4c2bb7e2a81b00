package dto

type CreateCategoryInput struct {
	Name string `json:"name" validate:"required"`
}

type RenameCategoryInput struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}
