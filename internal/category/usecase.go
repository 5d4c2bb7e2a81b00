package category

import (
	"context"

	"github.com/fekuna/omnipos-stock-app/internal/category/dto"
	"github.com/fekuna/omnipos-stock-app/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	RenameCategory(ctx context.Context, input *dto.RenameCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) []model.Category
}

// Remote is the backend side of category mutations. A nil Remote keeps the
// store local-only.
type Remote interface {
	SaveCategory(ctx context.Context, cat model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Items is the slice of the Inventory Store the category operations touch:
// renames are propagated to item labels and deletions report orphans.
type Items interface {
	RelabelCategory(categoryID, oldName, newName string)
	ByCategory(category string) []model.Item
}
