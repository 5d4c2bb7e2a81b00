package repository

import (
	"fmt"
	"slices"
	"sync"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/inventory"
	"github.com/fekuna/omnipos-stock-app/internal/model"
)

// State is the whole Inventory Store.
type State struct {
	Items []model.Item
}

// Action is one of AddItem, UpdateItem, DeleteItem, DeleteItemByID,
// AdjustQuantity, ClampedAdjust, Withdraw, Restock, RelabelCategory,
// ReplaceAll.
type Action interface {
	name() string
}

type AddItem struct{ Item model.Item }
type UpdateItem struct{ Item model.Item }
type DeleteItem struct{ Name string }
type DeleteItemByID struct{ ID string }
type AdjustQuantity struct {
	ItemID string
	Delta  int
}

// ClampedAdjust adds Delta and floors the result at zero.
type ClampedAdjust struct {
	ItemID string
	Delta  int
}

// Withdraw takes Quantity out of live stock. Taking all of it removes the
// item; taking more fails with InsufficientStockError.
type Withdraw struct {
	ItemID   string
	Quantity int
}

// Restock adds Quantity to the item with Item.ID, or re-inserts Item
// holding Quantity when it is gone.
type Restock struct {
	Item     model.Item
	Quantity int
}

type RelabelCategory struct {
	CategoryID string
	OldName    string
	NewName    string
}
type ReplaceAll struct{ Items []model.Item }

func (AddItem) name() string         { return "add" }
func (UpdateItem) name() string      { return "update" }
func (DeleteItem) name() string      { return "delete" }
func (DeleteItemByID) name() string  { return "delete" }
func (AdjustQuantity) name() string  { return "adjust" }
func (ClampedAdjust) name() string   { return "adjust" }
func (Withdraw) name() string        { return "withdraw" }
func (Restock) name() string         { return "restock" }
func (RelabelCategory) name() string { return "relabel" }
func (ReplaceAll) name() string      { return "replace" }

// Reduce returns the state after applying a without touching s. On error
// the returned state equals s.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case AddItem:
		if a.Item.Quantity < 0 {
			return s, apperror.Validation("quantity", "must not be negative")
		}
		return State{Items: append(slices.Clip(s.Items), a.Item)}, nil

	case UpdateItem:
		if a.Item.Quantity < 0 {
			return s, apperror.Validation("quantity", "must not be negative")
		}
		idx := indexWhere(s.Items, func(it model.Item) bool { return it.ID == a.Item.ID })
		if idx < 0 {
			return s, fmt.Errorf("%s: %w", a.Item.ID, apperror.ErrItemNotFound)
		}
		next := slices.Clone(s.Items)
		next[idx] = a.Item
		return State{Items: next}, nil

	case DeleteItem:
		idx := indexWhere(s.Items, func(it model.Item) bool { return it.Name == a.Name })
		if idx < 0 {
			return s, fmt.Errorf("%q: %w", a.Name, apperror.ErrItemNotFound)
		}
		return State{Items: slices.Delete(slices.Clone(s.Items), idx, idx+1)}, nil

	case DeleteItemByID:
		idx := indexWhere(s.Items, func(it model.Item) bool { return it.ID == a.ID })
		if idx < 0 {
			return s, fmt.Errorf("%s: %w", a.ID, apperror.ErrItemNotFound)
		}
		return State{Items: slices.Delete(slices.Clone(s.Items), idx, idx+1)}, nil

	case AdjustQuantity:
		idx := indexWhere(s.Items, func(it model.Item) bool { return it.ID == a.ItemID })
		if idx < 0 {
			return s, fmt.Errorf("%s: %w", a.ItemID, apperror.ErrItemNotFound)
		}
		next := slices.Clone(s.Items)
		next[idx].Quantity += a.Delta
		return State{Items: next}, nil

	case ClampedAdjust:
		idx := indexWhere(s.Items, func(it model.Item) bool { return it.ID == a.ItemID })
		if idx < 0 {
			return s, fmt.Errorf("%s: %w", a.ItemID, apperror.ErrItemNotFound)
		}
		next := slices.Clone(s.Items)
		next[idx].Quantity = max(0, next[idx].Quantity+a.Delta)
		return State{Items: next}, nil

	case Withdraw:
		if a.Quantity < 1 {
			return s, apperror.Validation("quantity", "must be at least 1")
		}
		idx := indexWhere(s.Items, func(it model.Item) bool { return it.ID == a.ItemID })
		if idx < 0 {
			return s, fmt.Errorf("%s: %w", a.ItemID, apperror.ErrItemNotFound)
		}
		it := s.Items[idx]
		switch {
		case a.Quantity > it.Quantity:
			return s, &apperror.InsufficientStockError{Item: it.Name, Requested: a.Quantity, Available: it.Quantity}
		case a.Quantity == it.Quantity:
			return State{Items: slices.Delete(slices.Clone(s.Items), idx, idx+1)}, nil
		}
		next := slices.Clone(s.Items)
		next[idx].Quantity -= a.Quantity
		return State{Items: next}, nil

	case Restock:
		if a.Quantity < 0 {
			return s, apperror.Validation("quantity", "must not be negative")
		}
		idx := indexWhere(s.Items, func(it model.Item) bool { return it.ID == a.Item.ID })
		if idx < 0 {
			it := a.Item
			it.Quantity = a.Quantity
			return State{Items: append(slices.Clip(s.Items), it)}, nil
		}
		next := slices.Clone(s.Items)
		next[idx].Quantity += a.Quantity
		return State{Items: next}, nil

	case RelabelCategory:
		next := slices.Clone(s.Items)
		for i, it := range next {
			if (it.CategoryID != "" && it.CategoryID == a.CategoryID) ||
				(it.CategoryID == "" && it.Category == a.OldName) {
				next[i].Category = a.NewName
				next[i].CategoryID = a.CategoryID
			}
		}
		return State{Items: next}, nil

	case ReplaceAll:
		return State{Items: slices.Clone(a.Items)}, nil
	}
	return s, nil
}

func indexWhere(items []model.Item, pred func(model.Item) bool) int {
	return slices.IndexFunc(items, pred)
}

type MemoryRepository struct {
	mu    sync.RWMutex
	state State

	subMu  sync.Mutex
	subs   map[int]func(inventory.Change)
	nextID int
}

var _ inventory.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{subs: make(map[int]func(inventory.Change))}
}

func (r *MemoryRepository) dispatch(a Action, itemID string) error {
	_, _, err := r.commit(a, itemID)
	return err
}

// commit applies a under the write lock and returns the item with itemID
// as it stands afterwards; ok is false when it no longer exists.
func (r *MemoryRepository) commit(a Action, itemID string) (after model.Item, ok bool, err error) {
	r.mu.Lock()
	next, err := Reduce(r.state, a)
	if err == nil {
		r.state = next
		if idx := indexWhere(next.Items, func(it model.Item) bool { return it.ID == itemID }); idx >= 0 {
			after, ok = next.Items[idx], true
		}
	}
	r.mu.Unlock()

	if err != nil {
		return model.Item{}, false, err
	}
	r.notify(inventory.Change{Action: a.name(), ItemID: itemID})
	return after, ok, nil
}

func (r *MemoryRepository) notify(ch inventory.Change) {
	r.subMu.Lock()
	subs := make([]func(inventory.Change), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.subMu.Unlock()

	for _, fn := range subs {
		fn(ch)
	}
}

func (r *MemoryRepository) Subscribe(fn func(inventory.Change)) func() {
	r.subMu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		delete(r.subs, id)
		r.subMu.Unlock()
	}
}

func (r *MemoryRepository) Add(item model.Item) error {
	return r.dispatch(AddItem{Item: item}, item.ID)
}

func (r *MemoryRepository) Update(item model.Item) error {
	return r.dispatch(UpdateItem{Item: item}, item.ID)
}

func (r *MemoryRepository) DeleteByName(name string) error {
	it, _ := r.FindByName(name)
	return r.dispatch(DeleteItem{Name: name}, it.ID)
}

func (r *MemoryRepository) DeleteByID(id string) error {
	return r.dispatch(DeleteItemByID{ID: id}, id)
}

func (r *MemoryRepository) AdjustQuantity(id string, delta int) error {
	return r.dispatch(AdjustQuantity{ItemID: id, Delta: delta}, id)
}

func (r *MemoryRepository) AdjustQuantityClamped(id string, delta int) (model.Item, error) {
	after, _, err := r.commit(ClampedAdjust{ItemID: id, Delta: delta}, id)
	return after, err
}

func (r *MemoryRepository) Withdraw(id string, qty int) (model.Item, bool, error) {
	after, ok, err := r.commit(Withdraw{ItemID: id, Quantity: qty}, id)
	return after, !ok && err == nil, err
}

func (r *MemoryRepository) Restock(item model.Item, qty int) (model.Item, error) {
	after, _, err := r.commit(Restock{Item: item, Quantity: qty}, item.ID)
	return after, err
}

func (r *MemoryRepository) RelabelCategory(categoryID, oldName, newName string) {
	_ = r.dispatch(RelabelCategory{CategoryID: categoryID, OldName: oldName, NewName: newName}, "")
}

func (r *MemoryRepository) ReplaceAll(items []model.Item) {
	_ = r.dispatch(ReplaceAll{Items: items}, "")
}

func (r *MemoryRepository) List() []model.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.state.Items)
}

func (r *MemoryRepository) ByCategory(category string) []model.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Item
	for _, it := range r.state.Items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

func (r *MemoryRepository) find(pred func(model.Item) bool) (model.Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := indexWhere(r.state.Items, pred); idx >= 0 {
		return r.state.Items[idx], true
	}
	return model.Item{}, false
}

func (r *MemoryRepository) FindByID(id string) (model.Item, bool) {
	return r.find(func(it model.Item) bool { return it.ID == id })
}

func (r *MemoryRepository) FindByName(name string) (model.Item, bool) {
	return r.find(func(it model.Item) bool { return it.Name == name })
}

func (r *MemoryRepository) FindByNameAndCategory(name, category string) (model.Item, bool) {
	return r.find(func(it model.Item) bool { return it.Name == name && it.Category == category })
}

func (r *MemoryRepository) Stock(id string) (int, bool) {
	it, ok := r.FindByID(id)
	return it.Quantity, ok
}
