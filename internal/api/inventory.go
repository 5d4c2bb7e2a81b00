package api

import (
	"context"
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/shopspring/decimal"
)

// Inventory fetches the category → items tree for the user's company.
func (c *Client) Inventory(ctx context.Context) ([]model.CategoryTree, error) {
	var resp envelope[[]model.CategoryTree]
	if err := c.do(ctx, "inventory", http.MethodGet, "/products/inventory", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type saveCategoryRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// SaveCategory creates the category when ID is empty and renames it
// otherwise; both go through the same POST.
func (c *Client) SaveCategory(ctx context.Context, cat model.Category) (*model.Category, error) {
	var resp envelope[model.Category]
	req := saveCategoryRequest{ID: cat.ID, Name: cat.Name}
	if err := c.do(ctx, "save-category", http.MethodPost, "/products/categories", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, "delete-category", http.MethodDelete, "/products/categories/"+pathEscape(id), nil, nil)
}

type saveItemRequest struct {
	ID         string           `json:"id,omitempty"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	Unit       string           `json:"unit"`
	CategoryID string           `json:"category_id,omitempty"`
	Category   string           `json:"category"`
	Price      *decimal.Decimal `json:"price,omitempty"`
}

// SaveItem creates or updates an item; the backend tells them apart by ID.
func (c *Client) SaveItem(ctx context.Context, item model.Item) (*model.Item, error) {
	req := saveItemRequest{
		ID:         item.ID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
		CategoryID: item.CategoryID,
		Category:   item.Category,
	}
	if item.Price.Valid {
		p := item.Price.Decimal
		req.Price = &p
	}

	var resp envelope[model.Item]
	if err := c.do(ctx, "save-item", http.MethodPost, "/products/items", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, "delete-item", http.MethodDelete, "/products/items/"+pathEscape(id), nil, nil)
}
