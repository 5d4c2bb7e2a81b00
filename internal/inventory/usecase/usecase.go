package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/category"
	"github.com/fekuna/omnipos-stock-app/internal/inventory"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/internal/validation"
	"github.com/fekuna/omnipos-stock-app/pkg/cache"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const seenEventTTL = 24 * time.Hour

type inventoryUseCase struct {
	repo       inventory.Repository
	categories category.Repository
	remote     inventory.Remote
	cache      *cache.RedisClient
	tracker    *operation.Tracker
	logger     logger.ZapLogger
}

// NewInventoryUseCase wires the Inventory Store to the backend. remote and
// cache may be nil; without a cache stock events are not de-duplicated.
func NewInventoryUseCase(repo inventory.Repository, categories category.Repository, remote inventory.Remote, cache *cache.RedisClient, tracker *operation.Tracker, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:       repo,
		categories: categories,
		remote:     remote,
		cache:      cache,
		tracker:    tracker,
		logger:     log,
	}
}

func (uc *inventoryUseCase) Refresh(ctx context.Context) error {
	if uc.remote == nil {
		return nil
	}

	done, err := uc.tracker.Begin(operation.RefreshStock)
	if err != nil {
		return err
	}
	defer done()

	tree, err := uc.remote.Inventory(ctx)
	if err != nil {
		uc.logger.Error("failed to fetch inventory", zap.Error(err))
		return err
	}

	cats := make([]model.Category, 0, len(tree))
	var items []model.Item
	for _, node := range tree {
		cats = append(cats, node.Category)
		for _, it := range node.Items {
			it.Category = node.Name
			it.CategoryID = node.ID
			if it.Unit == "" {
				it.Unit = model.DefaultUnit
			}
			if it.Quantity < 0 {
				uc.logger.Warn("backend reported negative stock",
					zap.String("item_id", it.ID),
					zap.Int("quantity", it.Quantity),
				)
				it.Quantity = 0
			}
			items = append(items, it)
		}
	}

	uc.categories.ReplaceAll(cats)
	uc.repo.ReplaceAll(items)
	uc.logger.Info("inventory refreshed", zap.Int("categories", len(cats)), zap.Int("items", len(items)))
	return nil
}

func (uc *inventoryUseCase) SaveItem(ctx context.Context, input *dto.SaveItemInput) (*model.Item, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, apperror.Validation("price", "must not be negative")
	}

	name := strings.TrimSpace(input.Name)
	cat, ok := uc.categories.FindByName(strings.TrimSpace(input.Category))
	if !ok {
		return nil, fmt.Errorf("category %q: %w", input.Category, apperror.ErrNotFound)
	}

	item := model.Item{
		ID:         input.ID,
		Name:       name,
		Quantity:   input.Quantity,
		Unit:       strings.TrimSpace(input.Unit),
		Category:   cat.Name,
		CategoryID: cat.ID,
	}
	if item.Unit == "" {
		item.Unit = model.DefaultUnit
	}
	if input.Price != nil {
		item.Price = decimal.NewNullDecimal(*input.Price)
	}

	creating := item.ID == ""
	if creating {
		if _, exists := uc.repo.FindByNameAndCategory(item.Name, item.Category); exists {
			return nil, fmt.Errorf("item %q: %w", item.Name, apperror.ErrDuplicateName)
		}
	} else if _, exists := uc.repo.FindByID(item.ID); !exists {
		return nil, fmt.Errorf("%s: %w", item.ID, apperror.ErrItemNotFound)
	}

	done, err := uc.tracker.Begin(operation.SaveItem)
	if err != nil {
		return nil, err
	}
	defer done()

	if uc.remote != nil {
		saved, err := uc.remote.SaveItem(ctx, item)
		if err != nil {
			uc.logger.Error("failed to save item", zap.String("name", item.Name), zap.Error(err))
			return nil, err
		}
		if creating {
			item.ID = saved.ID
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	if creating {
		err = uc.repo.Add(item)
	} else {
		err = uc.repo.Update(item)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes by exact name across all categories.
func (uc *inventoryUseCase) DeleteItem(ctx context.Context, name string) error {
	item, ok := uc.repo.FindByName(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, apperror.ErrItemNotFound)
	}

	done, err := uc.tracker.Begin(operation.DeleteItem)
	if err != nil {
		return err
	}
	defer done()

	if uc.remote != nil {
		if err := uc.remote.DeleteItem(ctx, item.ID); err != nil {
			uc.logger.Error("failed to delete item", zap.String("item_id", item.ID), zap.Error(err))
			return err
		}
	}
	return uc.repo.DeleteByName(name)
}

func (uc *inventoryUseCase) ListItems(_ context.Context, filters *dto.ItemFilters) []model.Item {
	if filters == nil || filters.Category == "" {
		return uc.repo.List()
	}
	return uc.repo.ByCategory(filters.Category)
}

func (uc *inventoryUseCase) ListOrphans(_ context.Context) []model.Item {
	var orphans []model.Item
	for _, it := range uc.repo.List() {
		if it.CategoryID != "" {
			if _, ok := uc.categories.FindByID(it.CategoryID); ok {
				continue
			}
		} else if _, ok := uc.categories.FindByName(it.Category); ok {
			continue
		}
		orphans = append(orphans, it)
	}
	return orphans
}

func (uc *inventoryUseCase) ApplyStockEvent(ctx context.Context, event *dto.StockEvent) error {
	if fresh, err := uc.claimEvent(ctx, event.EventID); err != nil {
		uc.logger.Warn("failed to record stock event, applying anyway", zap.String("event_id", event.EventID), zap.Error(err))
	} else if !fresh {
		uc.logger.Debug("skipping duplicate stock event", zap.String("event_id", event.EventID))
		return nil
	}

	switch event.EventType {
	case dto.EventItemStockAdjusted:
		after, err := uc.repo.AdjustQuantityClamped(event.ItemID, event.Delta)
		if err != nil {
			return err
		}
		if after.Quantity == 0 && event.Delta < 0 {
			uc.logger.Warn("stock event emptied item, clamped at zero",
				zap.String("item_id", event.ItemID),
				zap.Int("delta", event.Delta),
			)
		}
		return nil

	case dto.EventItemDeleted:
		if err := uc.repo.DeleteByID(event.ItemID); err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return nil

	case dto.EventInventoryChanged:
		if err := uc.Refresh(ctx); err != nil && !errors.Is(err, apperror.ErrInFlight) {
			return err
		}
		return nil
	}

	uc.logger.Debug("ignoring stock event", zap.String("event_type", event.EventType))
	return nil
}

// claimEvent reports whether id has not been applied before.
func (uc *inventoryUseCase) claimEvent(ctx context.Context, id string) (bool, error) {
	if uc.cache == nil || id == "" {
		return true, nil
	}
	return uc.cache.SetNX(ctx, "stock-event:"+id, "1", seenEventTTL)
}
