package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/category"
	"github.com/fekuna/omnipos-stock-app/internal/entry"
	"github.com/fekuna/omnipos-stock-app/internal/entry/dto"
	"github.com/fekuna/omnipos-stock-app/internal/inventory"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/internal/validation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type entryUseCase struct {
	mu    sync.Mutex
	state entry.State

	items      inventory.Repository
	categories category.Repository
	syncer     entry.Syncer
	tracker    *operation.Tracker
	logger     logger.ZapLogger
}

func NewEntryUseCase(items inventory.Repository, categories category.Repository, syncer entry.Syncer, tracker *operation.Tracker, log logger.ZapLogger) entry.UseCase {
	return &entryUseCase{
		state:      entry.State{Mode: entry.Buying, Phase: entry.Idle},
		items:      items,
		categories: categories,
		syncer:     syncer,
		tracker:    tracker,
		logger:     log,
	}
}

func (uc *entryUseCase) State(_ context.Context) entry.State {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.refreshStock()
	uc.state.Quantity = uc.clamp(uc.state.Quantity)
	return uc.state
}

func (uc *entryUseCase) SetMode(_ context.Context, mode entry.Mode) (entry.State, error) {
	if mode != entry.Buying && mode != entry.Selling {
		return entry.State{}, apperror.Validation("mode", "must be one of buying selling")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state.Mode = mode
	uc.refreshStock()
	uc.state.Quantity = uc.clamp(uc.state.Quantity)
	return uc.state, nil
}

func (uc *entryUseCase) SelectCategory(_ context.Context, name string) (entry.State, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entry.State{}, apperror.Validation("category", "is required")
	}
	if _, ok := uc.categories.FindByName(name); !ok {
		return entry.State{}, fmt.Errorf("category %q: %w", name, apperror.ErrNotFound)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = entry.State{
		Mode:     uc.state.Mode,
		Phase:    entry.CategorySelected,
		Category: name,
	}
	return uc.state, nil
}

// SelectItem accepts any name while buying so a new item can be created;
// selling requires the item to exist in the selected category.
func (uc *entryUseCase) SelectItem(_ context.Context, name string) (entry.State, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entry.State{}, apperror.Validation("item_name", "is required")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.state.Category == "" {
		return uc.state, apperror.Validation("category", "is required")
	}
	if uc.state.Mode == entry.Selling {
		if _, ok := uc.items.FindByNameAndCategory(name, uc.state.Category); !ok {
			return uc.state, fmt.Errorf("%q: %w", name, apperror.ErrItemNotFound)
		}
	}

	uc.state.ItemName = name
	uc.state.Quantity = 0
	uc.state.Phase = entry.ItemSelected
	uc.refreshStock()
	return uc.state, nil
}

func (uc *entryUseCase) SetQuantity(_ context.Context, q int) (entry.State, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.setQuantity(q)
}

func (uc *entryUseCase) Step(_ context.Context, delta int) (entry.State, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.setQuantity(uc.state.Quantity + delta)
}

func (uc *entryUseCase) setQuantity(q int) (entry.State, error) {
	if uc.state.ItemName == "" {
		return uc.state, apperror.Validation("item_name", "is required")
	}
	uc.refreshStock()
	uc.state.Quantity = uc.clamp(q)
	uc.state.Phase = entry.QuantitySet
	return uc.state, nil
}

// Submit keeps the session as it was when the entry is rejected.
func (uc *entryUseCase) Submit(ctx context.Context) (*entry.Result, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state.ItemName == "" {
		return nil, apperror.Validation("item_name", "is required")
	}

	res, err := uc.apply(ctx, uc.state.Mode, uc.state.Category, uc.state.ItemName, uc.state.Quantity)
	if err != nil {
		return nil, err
	}
	uc.state = entry.State{Mode: uc.state.Mode, Phase: entry.Idle}
	return res, nil
}

func (uc *entryUseCase) Cancel(_ context.Context) entry.State {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = entry.State{Mode: uc.state.Mode, Phase: entry.Idle}
	return uc.state
}

func (uc *entryUseCase) Apply(ctx context.Context, input *dto.ApplyInput) (*entry.Result, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	return uc.apply(ctx, entry.Mode(input.Mode), strings.TrimSpace(input.Category), strings.TrimSpace(input.ItemName), input.Quantity)
}

func (uc *entryUseCase) apply(ctx context.Context, mode entry.Mode, categoryName, name string, q int) (*entry.Result, error) {
	cat, ok := uc.categories.FindByName(categoryName)
	if !ok {
		return nil, fmt.Errorf("category %q: %w", categoryName, apperror.ErrNotFound)
	}

	done, err := uc.tracker.Begin(operation.ManualEntry)
	if err != nil {
		return nil, err
	}
	defer done()

	if mode == entry.Selling {
		return uc.sell(ctx, cat, name, q)
	}
	return uc.buy(ctx, cat, name, q)
}

func (uc *entryUseCase) buy(ctx context.Context, cat model.Category, name string, q int) (*entry.Result, error) {
	if q < 0 {
		return nil, apperror.Validation("quantity", "must not be negative")
	}
	if q == 0 {
		q = 1
	}

	existing, ok := uc.items.FindByNameAndCategory(name, cat.Name)
	if ok {
		next, err := uc.items.Restock(existing, q)
		if err != nil {
			return nil, err
		}
		if err := uc.push(ctx, next); err != nil {
			uc.undo(existing.ID, -q)
			return nil, err
		}
		uc.logger.Info("stock bought", zap.String("item_id", existing.ID), zap.Int("quantity", q))
		return &entry.Result{Action: entry.Increased, Item: next}, nil
	}

	item := model.Item{
		Name:       name,
		Quantity:   q,
		Unit:       model.DefaultUnit,
		Category:   cat.Name,
		CategoryID: cat.ID,
	}
	if uc.syncer != nil {
		saved, err := uc.syncer.SaveItem(ctx, item)
		if err != nil {
			uc.logger.Error("failed to create item from entry", zap.String("name", name), zap.Error(err))
			return nil, err
		}
		item.ID = saved.ID
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := uc.items.Add(item); err != nil {
		return nil, err
	}
	uc.logger.Info("item created by entry", zap.String("item_id", item.ID), zap.Int("quantity", q))
	return &entry.Result{Action: entry.Created, Item: item}, nil
}

func (uc *entryUseCase) sell(ctx context.Context, cat model.Category, name string, q int) (*entry.Result, error) {
	if q < 1 {
		return nil, apperror.Validation("quantity", "must be at least 1")
	}

	existing, ok := uc.items.FindByNameAndCategory(name, cat.Name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, apperror.ErrItemNotFound)
	}

	// Withdraw checks against live stock under the store lock, so a stock
	// event landing before or during the sync cannot take it below zero.
	left, removed, err := uc.items.Withdraw(existing.ID, q)
	if err != nil {
		return nil, err
	}

	if removed {
		if uc.syncer != nil {
			if err := uc.syncer.DeleteItem(ctx, existing.ID); err != nil {
				uc.logger.Error("failed to delete sold out item", zap.String("item_id", existing.ID), zap.Error(err))
				if _, rerr := uc.items.Restock(existing, q); rerr != nil {
					uc.logger.Error("failed to restore sold out item", zap.String("item_id", existing.ID), zap.Error(rerr))
				}
				return nil, err
			}
		}
		existing.Quantity = 0
		uc.logger.Info("item sold out", zap.String("item_id", existing.ID))
		return &entry.Result{Action: entry.Removed, Item: existing}, nil
	}

	if err := uc.push(ctx, left); err != nil {
		uc.undo(existing.ID, q)
		return nil, err
	}
	uc.logger.Info("stock sold", zap.String("item_id", existing.ID), zap.Int("quantity", q))
	return &entry.Result{Action: entry.Decreased, Item: left}, nil
}

// undo reverts a local change the backend refused.
func (uc *entryUseCase) undo(id string, delta int) {
	if _, err := uc.items.AdjustQuantityClamped(id, delta); err != nil {
		uc.logger.Error("failed to revert entry", zap.String("item_id", id), zap.Error(err))
	}
}

func (uc *entryUseCase) push(ctx context.Context, item model.Item) error {
	if uc.syncer == nil {
		return nil
	}
	if _, err := uc.syncer.SaveItem(ctx, item); err != nil {
		uc.logger.Error("failed to sync entry", zap.String("item_id", item.ID), zap.Error(err))
		return err
	}
	return nil
}

func (uc *entryUseCase) refreshStock() {
	uc.state.Stock = 0
	if uc.state.ItemName == "" {
		return
	}
	if it, ok := uc.items.FindByNameAndCategory(uc.state.ItemName, uc.state.Category); ok {
		uc.state.Stock = it.Quantity
	}
}

func (uc *entryUseCase) clamp(q int) int {
	if q < 0 {
		return 0
	}
	if uc.state.Mode == entry.Selling && q > uc.state.Stock {
		return uc.state.Stock
	}
	return q
}
