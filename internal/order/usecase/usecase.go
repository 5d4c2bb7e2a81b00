package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/category"
	"github.com/fekuna/omnipos-stock-app/internal/inventory"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/internal/order"
	"github.com/fekuna/omnipos-stock-app/internal/order/cart"
	"github.com/fekuna/omnipos-stock-app/internal/order/dto"
	"github.com/fekuna/omnipos-stock-app/internal/validation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderUseCase struct {
	cart       *cart.Cart
	items      inventory.Repository
	categories category.Repository
	remote     order.Remote
	tracker    *operation.Tracker
	logger     logger.ZapLogger

	// history backs the order list when there is no remote.
	mu      sync.Mutex
	history []model.Order
}

func NewOrderUseCase(items inventory.Repository, categories category.Repository, remote order.Remote, tracker *operation.Tracker, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		cart:       cart.New(items),
		items:      items,
		categories: categories,
		remote:     remote,
		tracker:    tracker,
		logger:     log,
	}
}

// editable refuses cart edits while an order is being submitted.
func (uc *orderUseCase) editable() error {
	if uc.tracker.InFlight(operation.SubmitOrder) {
		return apperror.ErrInFlight
	}
	return nil
}

func (uc *orderUseCase) AddLine(_ context.Context, input *dto.AddLineInput) (*model.OrderLine, error) {
	if err := uc.editable(); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	cat, ok := uc.categories.FindByID(input.CategoryID)
	if !ok {
		return nil, fmt.Errorf("category %s: %w", input.CategoryID, apperror.ErrNotFound)
	}
	item, ok := uc.items.FindByID(input.ItemID)
	if !ok || !inCategory(item, cat) {
		return nil, fmt.Errorf("%s: %w", input.ItemID, apperror.ErrItemNotFound)
	}

	line, err := uc.cart.Add(cat, item, input.Quantity)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (uc *orderUseCase) Increment(_ context.Context, lineID string) (*model.OrderLine, error) {
	if err := uc.editable(); err != nil {
		return nil, err
	}
	line, err := uc.cart.Increment(lineID)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (uc *orderUseCase) Decrement(_ context.Context, lineID string) (*model.OrderLine, error) {
	if err := uc.editable(); err != nil {
		return nil, err
	}
	line, removed, err := uc.cart.Decrement(lineID)
	if err != nil || removed {
		return nil, err
	}
	return &line, nil
}

func (uc *orderUseCase) RemoveLine(_ context.Context, lineID string) {
	uc.cart.Remove(lineID)
}

func (uc *orderUseCase) Swipe(_ context.Context, lineID string, points []cart.Point) cart.SwipeOutcome {
	outcome := cart.Recognize(points)
	if outcome == cart.SwipeCommit {
		uc.cart.Remove(lineID)
	}
	return outcome
}

func (uc *orderUseCase) Clear(_ context.Context) {
	uc.cart.Clear()
}

func (uc *orderUseCase) Lines(_ context.Context) []model.OrderLine {
	return uc.cart.Lines()
}

func (uc *orderUseCase) Available(_ context.Context, categoryID string) ([]model.Item, error) {
	cat, ok := uc.categories.FindByID(categoryID)
	if !ok {
		return nil, fmt.Errorf("category %s: %w", categoryID, apperror.ErrNotFound)
	}
	var items []model.Item
	for _, it := range uc.items.ByCategory(cat.Name) {
		if inCategory(it, cat) {
			items = append(items, it)
		}
	}
	return uc.cart.Available(items), nil
}

func (uc *orderUseCase) Submit(ctx context.Context) (*model.Order, error) {
	lines := uc.cart.Lines()
	if len(lines) == 0 {
		return nil, apperror.Validation("items", "cart is empty")
	}

	done, err := uc.tracker.Begin(operation.SubmitOrder)
	if err != nil {
		return nil, err
	}
	defer done()

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			ItemID:   l.ID,
			Name:     l.Name,
			Category: l.Category,
			Quantity: l.Quantity,
			Unit:     l.Unit,
		})
	}

	var created *model.Order
	if uc.remote != nil {
		created, err = uc.remote.CreateOrder(ctx, items)
		if err != nil {
			uc.logger.Error("failed to submit order", zap.Int("lines", len(items)), zap.Error(err))
			return nil, err
		}
	} else {
		created = &model.Order{ID: uuid.New().String(), Items: items, CreatedAt: time.Now()}
		uc.mu.Lock()
		uc.history = append(uc.history, *created)
		uc.mu.Unlock()
	}

	uc.cart.Settle(lines)
	uc.logger.Info("order submitted", zap.String("order_id", created.ID), zap.Int("lines", len(items)))
	return created, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context) ([]model.Order, error) {
	if uc.remote != nil {
		return uc.remote.ListOrders(ctx)
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return slices.Clone(uc.history), nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	if uc.remote != nil {
		return uc.remote.GetOrder(ctx, id)
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for _, o := range uc.history {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, apperror.ErrNotFound)
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id string) error {
	done, err := uc.tracker.Begin(operation.DeleteOrder)
	if err != nil {
		return err
	}
	defer done()

	if uc.remote != nil {
		if err := uc.remote.DeleteOrder(ctx, id); err != nil {
			uc.logger.Error("failed to delete order", zap.String("order_id", id), zap.Error(err))
			return err
		}
		return nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	idx := slices.IndexFunc(uc.history, func(o model.Order) bool { return o.ID == id })
	if idx < 0 {
		return fmt.Errorf("order %s: %w", id, apperror.ErrNotFound)
	}
	uc.history = slices.Delete(uc.history, idx, idx+1)
	return nil
}

func inCategory(item model.Item, cat model.Category) bool {
	if item.CategoryID != "" {
		return item.CategoryID == cat.ID
	}
	return item.Category == cat.Name
}
