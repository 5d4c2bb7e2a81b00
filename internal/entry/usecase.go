package entry

import (
	"context"

	"github.com/fekuna/omnipos-stock-app/internal/entry/dto"
	"github.com/fekuna/omnipos-stock-app/internal/model"
)

type Mode string

const (
	Buying  Mode = "buying"
	Selling Mode = "selling"
)

type Phase string

const (
	Idle             Phase = "idle"
	CategorySelected Phase = "category_selected"
	ItemSelected     Phase = "item_selected"
	QuantitySet      Phase = "quantity_set"
)

// State is one manual entry session. Submit and Cancel both return it to
// Idle with the selections cleared; the mode is kept.
type State struct {
	Mode     Mode   `json:"mode"`
	Phase    Phase  `json:"phase"`
	Category string `json:"category,omitempty"`
	ItemName string `json:"item_name,omitempty"`
	Quantity int    `json:"quantity"`
	// Stock is the live quantity of the selected item, zero when it does
	// not exist yet.
	Stock int `json:"stock"`
}

const (
	Created   = "created"
	Increased = "increased"
	Decreased = "decreased"
	Removed   = "removed"
)

type Result struct {
	Action string     `json:"action"`
	Item   model.Item `json:"item"`
}

type UseCase interface {
	State(ctx context.Context) State
	SetMode(ctx context.Context, mode Mode) (State, error)
	SelectCategory(ctx context.Context, name string) (State, error)
	SelectItem(ctx context.Context, name string) (State, error)
	// SetQuantity clamps q to [0, stock] while selling and to [0, ∞) while
	// buying.
	SetQuantity(ctx context.Context, q int) (State, error)
	Step(ctx context.Context, delta int) (State, error)
	Submit(ctx context.Context) (*Result, error)
	Cancel(ctx context.Context) State
	// Apply runs a single buy or sell without touching the session.
	Apply(ctx context.Context, input *dto.ApplyInput) (*Result, error)
}

// Syncer pushes the outcome of an entry to the backend before it is applied
// locally. Nil keeps entries local.
type Syncer interface {
	SaveItem(ctx context.Context, item model.Item) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error
}
