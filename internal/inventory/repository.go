package inventory

import "github.com/fekuna/omnipos-stock-app/internal/model"

// Repository is the local Inventory Store.
type Repository interface {
	// Add appends item as given. Duplicate names are not checked here.
	Add(item model.Item) error
	Update(item model.Item) error
	// DeleteByName removes the first item whose name matches exactly.
	DeleteByName(name string) error
	DeleteByID(id string) error
	// AdjustQuantity adds delta to the item's quantity. It does not clamp
	// or re-validate; callers check bounds before a negative delta.
	AdjustQuantity(id string, delta int) error
	// AdjustQuantityClamped adds delta, flooring the result at zero, and
	// returns the item afterwards.
	AdjustQuantityClamped(id string, delta int) (model.Item, error)
	// Withdraw checks and takes qty from live stock in one step. removed
	// reports that qty was the whole stock and the item is gone.
	Withdraw(id string, qty int) (remaining model.Item, removed bool, err error)
	// Restock adds qty to the item, re-inserting item with qty when it has
	// been removed meanwhile.
	Restock(item model.Item, qty int) (model.Item, error)
	RelabelCategory(categoryID, oldName, newName string)
	ReplaceAll(items []model.Item)

	List() []model.Item
	ByCategory(category string) []model.Item
	FindByID(id string) (model.Item, bool)
	FindByName(name string) (model.Item, bool)
	FindByNameAndCategory(name, category string) (model.Item, bool)
	Stock(id string) (int, bool)

	// Subscribe registers fn to run after every applied change. The
	// returned func unregisters it.
	Subscribe(fn func(Change)) (unsubscribe func())
}

// Change describes one applied mutation.
type Change struct {
	Action string
	ItemID string
}
