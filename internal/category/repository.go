package category

import "github.com/fekuna/omnipos-stock-app/internal/model"

// Repository is the local Category Store. Mutations are applied atomically.
type Repository interface {
	// Add trims name and appends a new category. Blank names are ignored
	// and reported with ok=false. No duplicate check happens here.
	Add(name string) (cat model.Category, ok bool)
	// Insert appends a category built elsewhere (e.g. returned by the
	// backend) under the same rules as Add.
	Insert(cat model.Category) (ok bool)
	Remove(id string)
	Update(cat model.Category) error
	ReplaceAll(cats []model.Category)

	List() []model.Category
	FindByID(id string) (model.Category, bool)
	FindByName(name string) (model.Category, bool)
	// NameTaken reports whether a category other than exceptID uses name.
	NameTaken(name, exceptID string) bool
}
