// Package cart is the Order Builder: the lines a user intends to order,
// kept within the live inventory stock.
package cart

import (
	"fmt"
	"slices"
	"sync"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/model"
)

// StockReader reports the live quantity of an item.
type StockReader interface {
	Stock(itemID string) (int, bool)
}

type Cart struct {
	mu    sync.Mutex
	lines []model.OrderLine
	stock StockReader
}

func New(stock StockReader) *Cart {
	return &Cart{stock: stock}
}

// Add puts quantity of item on a new line. Lines are keyed by item id and an
// item belongs to one category, so an item may be added once.
func (c *Cart) Add(cat model.Category, item model.Item, quantity int) (model.OrderLine, error) {
	if quantity < 1 {
		return model.OrderLine{}, apperror.Validation("quantity", "must be at least 1")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconcile()

	available, ok := c.stock.Stock(item.ID)
	if !ok {
		return model.OrderLine{}, fmt.Errorf("%s: %w", item.ID, apperror.ErrItemNotFound)
	}
	if quantity > available {
		return model.OrderLine{}, &apperror.ExceedsAvailableError{Item: item.Name, Requested: quantity, Available: available}
	}
	if c.index(item.ID) >= 0 {
		return model.OrderLine{}, fmt.Errorf("%q: %w", item.Name, apperror.ErrAlreadyPresent)
	}

	line := model.OrderLine{
		ID:         item.ID,
		Name:       item.Name,
		CategoryID: cat.ID,
		Category:   cat.Name,
		Quantity:   quantity,
		Unit:       item.Unit,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// Increment adds one, bounded by live stock. At the bound it is a no-op.
func (c *Cart) Increment(lineID string) (model.OrderLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconcile()

	idx := c.index(lineID)
	if idx < 0 {
		return model.OrderLine{}, fmt.Errorf("line %s: %w", lineID, apperror.ErrNotFound)
	}
	if stock, _ := c.stock.Stock(lineID); c.lines[idx].Quantity < stock {
		c.lines[idx].Quantity++
	}
	return c.lines[idx], nil
}

// Decrement removes one. A line that reaches zero is dropped and reported
// with removed=true.
func (c *Cart) Decrement(lineID string) (line model.OrderLine, removed bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconcile()

	idx := c.index(lineID)
	if idx < 0 {
		return model.OrderLine{}, false, fmt.Errorf("line %s: %w", lineID, apperror.ErrNotFound)
	}
	c.lines[idx].Quantity--
	line = c.lines[idx]
	if line.Quantity <= 0 {
		c.lines = slices.Delete(c.lines, idx, idx+1)
		return line, true, nil
	}
	return line, false, nil
}

func (c *Cart) Remove(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.index(lineID); idx >= 0 {
		c.lines = slices.Delete(c.lines, idx, idx+1)
	}
}

// Settle drops the given lines after they were ordered. Lines added since
// the snapshot stay in the cart.
func (c *Cart) Settle(ordered []model.OrderLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = slices.DeleteFunc(c.lines, func(l model.OrderLine) bool {
		return slices.ContainsFunc(ordered, func(o model.OrderLine) bool { return o.ID == l.ID })
	})
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) Lines() []model.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconcile()
	out := make([]model.OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.Lines())
}

// Available filters items down to the ones that can still be picked: in
// stock and not already in the cart.
func (c *Cart) Available(items []model.Item) []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconcile()

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if c.index(it.ID) >= 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

// reconcile clamps every line to live stock and drops lines whose item is
// gone or out of stock. Callers hold mu.
func (c *Cart) reconcile() {
	c.lines = slices.DeleteFunc(c.lines, func(l model.OrderLine) bool {
		stock, ok := c.stock.Stock(l.ID)
		return !ok || stock <= 0
	})
	for i := range c.lines {
		if stock, _ := c.stock.Stock(c.lines[i].ID); c.lines[i].Quantity > stock {
			c.lines[i].Quantity = stock
		}
	}
}

func (c *Cart) index(lineID string) int {
	return slices.IndexFunc(c.lines, func(l model.OrderLine) bool { return l.ID == lineID })
}
