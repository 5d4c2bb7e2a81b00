package cart

import (
	"math/rand"
	"testing"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/repository"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var produce = model.Category{BaseModel: model.BaseModel{ID: "c-produce"}, Name: "Produce"}

func newCart(t *testing.T) (*Cart, *repository.MemoryRepository, model.Item) {
	t.Helper()
	items := repository.NewMemoryRepository()
	apple := model.Item{ID: "i-apple", Name: "Apple", Quantity: 10, Unit: "lbs", Category: "Produce", CategoryID: produce.ID}
	require.NoError(t, items.Add(apple))
	return New(items), items, apple
}

func TestCart_AddRules(t *testing.T) {
	c, _, apple := newCart(t)

	_, err := c.Add(produce, apple, 0)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = c.Add(produce, apple, 11)
	var exceeds *apperror.ExceedsAvailableError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, 11, exceeds.Requested)
	assert.Equal(t, 10, exceeds.Available)

	line, err := c.Add(produce, apple, 3)
	require.NoError(t, err)
	assert.Equal(t, "lbs", line.Unit)
	assert.Equal(t, "Produce", line.Category)

	_, err = c.Add(produce, apple, 1)
	assert.ErrorIs(t, err, apperror.ErrAlreadyPresent)

	_, err = c.Add(produce, model.Item{ID: "ghost", Name: "Ghost"}, 1)
	assert.ErrorIs(t, err, apperror.ErrItemNotFound)

	// Same item under another category still hits the existing line.
	other := model.Category{BaseModel: model.BaseModel{ID: "c-other"}, Name: "Other"}
	_, err = c.Add(other, apple, 1)
	assert.ErrorIs(t, err, apperror.ErrAlreadyPresent)
	require.Len(t, c.Lines(), 1)
	line, err = c.Increment(apple.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, produce.ID, line.CategoryID)
}

func TestCart_IncrementDecrementScenario(t *testing.T) {
	c, _, apple := newCart(t)

	_, err := c.Add(produce, apple, 3)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = c.Increment(apple.ID)
		require.NoError(t, err)
	}
	require.Equal(t, 5, c.Lines()[0].Quantity)

	for i := 1; i <= 5; i++ {
		line, removed, err := c.Decrement(apple.ID)
		require.NoError(t, err)
		if i < 5 {
			assert.False(t, removed)
			assert.Equal(t, 5-i, line.Quantity)
		} else {
			assert.True(t, removed)
		}
	}
	assert.Empty(t, c.Lines())

	_, _, err = c.Decrement(apple.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCart_IncrementStopsAtLiveStock(t *testing.T) {
	c, items, apple := newCart(t)
	_, err := c.Add(produce, apple, 9)
	require.NoError(t, err)

	line, err := c.Increment(apple.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, line.Quantity)

	line, err = c.Increment(apple.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, line.Quantity)

	require.NoError(t, items.AdjustQuantity(apple.ID, 5))
	line, err = c.Increment(apple.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, line.Quantity)
}

func TestCart_FollowsConcurrentSell(t *testing.T) {
	c, items, apple := newCart(t)
	_, err := c.Add(produce, apple, 8)
	require.NoError(t, err)

	require.NoError(t, items.AdjustQuantity(apple.ID, -7))
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	require.NoError(t, items.DeleteByID(apple.ID))
	assert.Empty(t, c.Lines())
}

func TestCart_RandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 30; run++ {
		c, items, apple := newCart(t)
		for step := 0; step < 200; step++ {
			switch rng.Intn(5) {
			case 0:
				_, _ = c.Add(produce, apple, rng.Intn(12))
			case 1:
				_, _ = c.Increment(apple.ID)
			case 2:
				_, _, _ = c.Decrement(apple.ID)
			case 3:
				if stock, ok := items.Stock(apple.ID); ok && stock > 1 {
					_ = items.AdjustQuantity(apple.ID, -rng.Intn(stock))
				}
			case 4:
				_ = items.AdjustQuantity(apple.ID, rng.Intn(4))
			}

			stock, _ := items.Stock(apple.ID)
			for _, l := range c.Lines() {
				require.Greater(t, l.Quantity, 0)
				require.LessOrEqual(t, l.Quantity, stock)
			}
		}
	}
}

func TestCart_Available(t *testing.T) {
	c, items, apple := newCart(t)
	pear := model.Item{ID: "i-pear", Name: "Pear", Quantity: 2, Category: "Produce", CategoryID: produce.ID}
	empty := model.Item{ID: "i-kale", Name: "Kale", Quantity: 0, Category: "Produce", CategoryID: produce.ID}
	require.NoError(t, items.Add(pear))
	require.NoError(t, items.Add(empty))

	assert.Len(t, c.Available(items.ByCategory("Produce")), 2)

	_, err := c.Add(produce, apple, 1)
	require.NoError(t, err)
	got := c.Available(items.ByCategory("Produce"))
	require.Len(t, got, 1)
	assert.Equal(t, "Pear", got[0].Name)
}

func TestCart_RemoveAndClear(t *testing.T) {
	c, items, apple := newCart(t)
	require.NoError(t, items.Add(model.Item{ID: "i-pear", Name: "Pear", Quantity: 2}))
	_, err := c.Add(produce, apple, 1)
	require.NoError(t, err)
	_, err = c.Add(produce, model.Item{ID: "i-pear", Name: "Pear"}, 2)
	require.NoError(t, err)

	c.Remove("nope")
	c.Remove(apple.ID)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestCart_SettleKeepsNewLines(t *testing.T) {
	c, items, apple := newCart(t)
	require.NoError(t, items.Add(model.Item{ID: "i-pear", Name: "Pear", Quantity: 2}))
	_, err := c.Add(produce, apple, 2)
	require.NoError(t, err)
	ordered := c.Lines()

	_, err = c.Add(produce, model.Item{ID: "i-pear", Name: "Pear"}, 1)
	require.NoError(t, err)

	c.Settle(ordered)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "i-pear", lines[0].ID)
}
