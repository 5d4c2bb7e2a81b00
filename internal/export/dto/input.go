package dto

const DateLayout = "2006-01-02"

// ExportInput dates are inclusive. An empty Email falls back to the
// signed-in user's address.
type ExportInput struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Email     string `json:"email" validate:"omitempty,email"`
}
