package order

import (
	"context"

	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/order/cart"
	"github.com/fekuna/omnipos-stock-app/internal/order/dto"
)

type UseCase interface {
	AddLine(ctx context.Context, input *dto.AddLineInput) (*model.OrderLine, error)
	Increment(ctx context.Context, lineID string) (*model.OrderLine, error)
	// Decrement returns nil when the line was removed.
	Decrement(ctx context.Context, lineID string) (*model.OrderLine, error)
	RemoveLine(ctx context.Context, lineID string)
	// Swipe replays a drag gesture over a line and removes it on commit.
	Swipe(ctx context.Context, lineID string, points []cart.Point) cart.SwipeOutcome
	Clear(ctx context.Context)
	Lines(ctx context.Context) []model.OrderLine
	// Available is the pick list for a category without the items already
	// in the cart.
	Available(ctx context.Context, categoryID string) ([]model.Item, error)

	// Submit sends the cart as a new order and empties it on success.
	Submit(ctx context.Context) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// Remote is the backend order collaborator. A nil Remote keeps a local
// order history.
type Remote interface {
	CreateOrder(ctx context.Context, items []model.OrderItem) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
