package inventory

import (
	"context"

	"github.com/fekuna/omnipos-stock-app/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-app/internal/model"
)

type UseCase interface {
	// Refresh replaces the local categories and items with the backend tree.
	Refresh(ctx context.Context) error
	SaveItem(ctx context.Context, input *dto.SaveItemInput) (*model.Item, error)
	DeleteItem(ctx context.Context, name string) error
	ListItems(ctx context.Context, filters *dto.ItemFilters) []model.Item
	// ListOrphans returns items whose category no longer exists.
	ListOrphans(ctx context.Context) []model.Item
	ApplyStockEvent(ctx context.Context, event *dto.StockEvent) error
}

// Remote is the backend side of item mutations. A nil Remote keeps the
// store local-only.
type Remote interface {
	Inventory(ctx context.Context) ([]model.CategoryTree, error)
	SaveItem(ctx context.Context, item model.Item) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error
}
