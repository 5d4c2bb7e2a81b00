package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	catrepo "github.com/fekuna/omnipos-stock-app/internal/category/repository"
	"github.com/fekuna/omnipos-stock-app/internal/entry"
	"github.com/fekuna/omnipos-stock-app/internal/entry/dto"
	invdto "github.com/fekuna/omnipos-stock-app/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/repository"
	invusecase "github.com/fekuna/omnipos-stock-app/internal/inventory/usecase"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSyncer struct {
	saveFn   func(ctx context.Context, item model.Item) (*model.Item, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockSyncer) SaveItem(ctx context.Context, item model.Item) (*model.Item, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, item)
	}
	return &item, nil
}

func (m *mockSyncer) DeleteItem(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func setup(t *testing.T, syncer entry.Syncer) (entry.UseCase, *repository.MemoryRepository, *catrepo.MemoryRepository) {
	t.Helper()
	cats := catrepo.NewMemoryRepository()
	produce, _ := cats.Add("Produce")
	cats.Add("Dairy")
	items := repository.NewMemoryRepository()
	require.NoError(t, items.Add(model.Item{ID: "i-apple", Name: "Apple", Quantity: 10, Unit: "lbs", Category: "Produce", CategoryID: produce.ID}))
	return NewEntryUseCase(items, cats, syncer, operation.NewTracker(), logger.NewNop()), items, cats
}

func sell(name string, q int) *dto.ApplyInput {
	return &dto.ApplyInput{Mode: "selling", Category: "Produce", ItemName: name, Quantity: q}
}

func buy(name string, q int) *dto.ApplyInput {
	return &dto.ApplyInput{Mode: "buying", Category: "Produce", ItemName: name, Quantity: q}
}

func TestSell(t *testing.T) {
	ctx := context.Background()

	t.Run("less than stock decrements", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		res, err := uc.Apply(ctx, sell("Apple", 4))
		require.NoError(t, err)
		assert.Equal(t, entry.Decreased, res.Action)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 6, stock)
	})

	t.Run("exact stock removes item", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		res, err := uc.Apply(ctx, sell("Apple", 10))
		require.NoError(t, err)
		assert.Equal(t, entry.Removed, res.Action)
		_, ok := items.FindByID("i-apple")
		assert.False(t, ok)
	})

	t.Run("more than stock is rejected", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		_, err := uc.Apply(ctx, sell("Apple", 11))
		var insufficient *apperror.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 10, insufficient.Available)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 10, stock)
	})

	t.Run("unknown item", func(t *testing.T) {
		uc, _, _ := setup(t, nil)
		_, err := uc.Apply(ctx, sell("Pear", 1))
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("item in another category", func(t *testing.T) {
		uc, _, _ := setup(t, nil)
		_, err := uc.Apply(ctx, &dto.ApplyInput{Mode: "selling", Category: "Dairy", ItemName: "Apple", Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrItemNotFound)
	})
}

func TestBuy(t *testing.T) {
	ctx := context.Background()

	t.Run("existing pair adds quantity", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		res, err := uc.Apply(ctx, buy("Apple", 5))
		require.NoError(t, err)
		assert.Equal(t, entry.Increased, res.Action)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 15, stock)
	})

	t.Run("new pair is created with default unit", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		res, err := uc.Apply(ctx, buy("Pear", 7))
		require.NoError(t, err)
		assert.Equal(t, entry.Created, res.Action)
		pear, ok := items.FindByNameAndCategory("Pear", "Produce")
		require.True(t, ok)
		assert.Equal(t, 7, pear.Quantity)
		assert.Equal(t, model.DefaultUnit, pear.Unit)
	})

	t.Run("zero quantity buys one", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		_, err := uc.Apply(ctx, buy("Apple", 0))
		require.NoError(t, err)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 11, stock)
	})

	t.Run("unknown category", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		_, err := uc.Apply(ctx, &dto.ApplyInput{Mode: "buying", Category: "Bakery", ItemName: "Bread", Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Len(t, items.List(), 1)
	})

	t.Run("invalid input", func(t *testing.T) {
		uc, _, _ := setup(t, nil)
		_, err := uc.Apply(ctx, &dto.ApplyInput{Mode: "trading", Category: "Produce", ItemName: "Apple", Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = uc.Apply(ctx, buy(" ", 1))
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestSellOutThenBuyBack(t *testing.T) {
	ctx := context.Background()
	uc, items, cats := setup(t, nil)

	_, err := uc.Apply(ctx, sell("Apple", 10))
	require.NoError(t, err)
	assert.Empty(t, items.ByCategory("Produce"))
	_, ok := cats.FindByName("Produce")
	assert.True(t, ok)

	res, err := uc.Apply(ctx, buy("Apple", 5))
	require.NoError(t, err)
	assert.Equal(t, entry.Created, res.Action)
	apple, ok := items.FindByNameAndCategory("Apple", "Produce")
	require.True(t, ok)
	assert.Equal(t, 5, apple.Quantity)
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("switching to selling clamps pending quantity", func(t *testing.T) {
		uc, _, _ := setup(t, nil)
		_, err := uc.SelectCategory(ctx, "Produce")
		require.NoError(t, err)
		_, err = uc.SelectItem(ctx, "Apple")
		require.NoError(t, err)
		st, err := uc.SetQuantity(ctx, 25)
		require.NoError(t, err)
		assert.Equal(t, 25, st.Quantity)

		st, err = uc.SetMode(ctx, entry.Selling)
		require.NoError(t, err)
		assert.Equal(t, 10, st.Quantity)

		st, err = uc.Step(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 10, st.Quantity)

		st, err = uc.SetQuantity(ctx, -3)
		require.NoError(t, err)
		assert.Equal(t, 0, st.Quantity)
	})

	t.Run("state follows live stock", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		_, _ = uc.SetMode(ctx, entry.Selling)
		_, _ = uc.SelectCategory(ctx, "Produce")
		_, _ = uc.SelectItem(ctx, "Apple")
		_, _ = uc.SetQuantity(ctx, 8)

		require.NoError(t, items.AdjustQuantity("i-apple", -5))
		st := uc.State(ctx)
		assert.Equal(t, 5, st.Stock)
		assert.Equal(t, 5, st.Quantity)
	})

	t.Run("changing category clears item and quantity", func(t *testing.T) {
		uc, _, _ := setup(t, nil)
		_, _ = uc.SelectCategory(ctx, "Produce")
		_, _ = uc.SelectItem(ctx, "Apple")
		_, _ = uc.SetQuantity(ctx, 3)

		st, err := uc.SelectCategory(ctx, "Dairy")
		require.NoError(t, err)
		assert.Equal(t, entry.CategorySelected, st.Phase)
		assert.Empty(t, st.ItemName)
		assert.Zero(t, st.Quantity)
	})

	t.Run("changing item resets quantity", func(t *testing.T) {
		uc, _, _ := setup(t, nil)
		_, _ = uc.SelectCategory(ctx, "Produce")
		_, _ = uc.SelectItem(ctx, "Apple")
		_, _ = uc.SetQuantity(ctx, 3)

		st, err := uc.SelectItem(ctx, "Pear")
		require.NoError(t, err)
		assert.Equal(t, "Pear", st.ItemName)
		assert.Zero(t, st.Quantity)
	})

	t.Run("selling requires an existing item", func(t *testing.T) {
		uc, _, _ := setup(t, nil)
		_, _ = uc.SetMode(ctx, entry.Selling)
		_, _ = uc.SelectCategory(ctx, "Produce")
		_, err := uc.SelectItem(ctx, "Pear")
		assert.ErrorIs(t, err, apperror.ErrItemNotFound)
	})

	t.Run("item before category is rejected", func(t *testing.T) {
		uc, _, _ := setup(t, nil)
		_, err := uc.SelectItem(ctx, "Apple")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("submit returns to idle", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		_, _ = uc.SetMode(ctx, entry.Selling)
		_, _ = uc.SelectCategory(ctx, "Produce")
		_, _ = uc.SelectItem(ctx, "Apple")
		_, _ = uc.SetQuantity(ctx, 3)

		res, err := uc.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, res.Item.Quantity)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 7, stock)

		st := uc.State(ctx)
		assert.Equal(t, entry.Idle, st.Phase)
		assert.Equal(t, entry.Selling, st.Mode)
		assert.Empty(t, st.Category)
	})

	t.Run("cancel discards without mutation", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		_, _ = uc.SelectCategory(ctx, "Produce")
		_, _ = uc.SelectItem(ctx, "Apple")
		_, _ = uc.SetQuantity(ctx, 3)

		st := uc.Cancel(ctx)
		assert.Equal(t, entry.Idle, st.Phase)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 10, stock)

		_, err := uc.Submit(ctx)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestSyncer(t *testing.T) {
	ctx := context.Background()

	t.Run("remote failure leaves stock and session", func(t *testing.T) {
		syncer := &mockSyncer{saveFn: func(context.Context, model.Item) (*model.Item, error) {
			return nil, &apperror.RemoteError{Op: "items.save", Status: 500}
		}}
		uc, items, _ := setup(t, syncer)
		_, _ = uc.SelectCategory(ctx, "Produce")
		_, _ = uc.SelectItem(ctx, "Apple")
		_, _ = uc.SetQuantity(ctx, 2)

		_, err := uc.Submit(ctx)
		assert.ErrorIs(t, err, apperror.ErrRemoteFailure)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 10, stock)
		assert.Equal(t, entry.QuantitySet, uc.State(ctx).Phase)
	})

	t.Run("sell out deletes remotely by id", func(t *testing.T) {
		var deleted string
		syncer := &mockSyncer{deleteFn: func(_ context.Context, id string) error { deleted = id; return nil }}
		uc, _, _ := setup(t, syncer)

		_, err := uc.Apply(ctx, sell("Apple", 10))
		require.NoError(t, err)
		assert.Equal(t, "i-apple", deleted)
	})

	t.Run("new item takes backend id", func(t *testing.T) {
		syncer := &mockSyncer{saveFn: func(_ context.Context, item model.Item) (*model.Item, error) {
			if item.ID != "" {
				return nil, errors.New("unexpected id")
			}
			item.ID = "srv-9"
			return &item, nil
		}}
		uc, items, _ := setup(t, syncer)

		res, err := uc.Apply(ctx, buy("Pear", 2))
		require.NoError(t, err)
		assert.Equal(t, "srv-9", res.Item.ID)
		_, ok := items.FindByID("srv-9")
		assert.True(t, ok)
	})
}

func TestSell_StockEventDuringSync(t *testing.T) {
	ctx := context.Background()

	t.Run("event inside the sync never drives stock negative", func(t *testing.T) {
		var uc entry.UseCase
		var items *repository.MemoryRepository
		var pushed []int
		syncer := &mockSyncer{saveFn: func(ctx context.Context, item model.Item) (*model.Item, error) {
			pushed = append(pushed, item.Quantity)
			events := invusecase.NewInventoryUseCase(items, nil, nil, nil, nil, logger.NewNop())
			require.NoError(t, events.ApplyStockEvent(ctx, &invdto.StockEvent{EventType: invdto.EventItemStockAdjusted, ItemID: "i-apple", Delta: -8}))
			return &item, nil
		}}
		uc, items, _ = setup(t, syncer)

		res, err := uc.Apply(ctx, sell("Apple", 5))
		require.NoError(t, err)
		assert.Equal(t, entry.Decreased, res.Action)
		assert.Equal(t, []int{5}, pushed)

		stock, ok := items.Stock("i-apple")
		require.True(t, ok)
		assert.Equal(t, 0, stock)
	})

	t.Run("sell is checked against live stock", func(t *testing.T) {
		uc, items, _ := setup(t, nil)
		require.NoError(t, items.AdjustQuantity("i-apple", -8))

		_, err := uc.Apply(ctx, sell("Apple", 5))
		var insufficient *apperror.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 2, insufficient.Available)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 2, stock)
	})

	t.Run("refused sync restores the withdrawn stock", func(t *testing.T) {
		syncer := &mockSyncer{
			saveFn: func(context.Context, model.Item) (*model.Item, error) {
				return nil, &apperror.RemoteError{Op: "items.save", Status: 500}
			},
			deleteFn: func(context.Context, string) error {
				return &apperror.RemoteError{Op: "items.delete", Status: 500}
			},
		}
		uc, items, _ := setup(t, syncer)

		_, err := uc.Apply(ctx, sell("Apple", 4))
		assert.ErrorIs(t, err, apperror.ErrRemoteFailure)
		stock, _ := items.Stock("i-apple")
		assert.Equal(t, 10, stock)

		_, err = uc.Apply(ctx, sell("Apple", 10))
		assert.ErrorIs(t, err, apperror.ErrRemoteFailure)
		restored, ok := items.FindByID("i-apple")
		require.True(t, ok)
		assert.Equal(t, 10, restored.Quantity)
		assert.Equal(t, "lbs", restored.Unit)
	})
}
