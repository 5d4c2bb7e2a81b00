package api

import (
	"context"
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/model"
)

type createOrderRequest struct {
	Items []model.OrderItem `json:"items"`
}

func (c *Client) CreateOrder(ctx context.Context, items []model.OrderItem) (*model.Order, error) {
	var resp envelope[model.Order]
	if err := c.do(ctx, "create-order", http.MethodPost, "/orders", createOrderRequest{Items: items}, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var resp envelope[[]model.Order]
	if err := c.do(ctx, "list-orders", http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var resp envelope[model.Order]
	if err := c.do(ctx, "get-order", http.MethodGet, "/orders/"+pathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, "delete-order", http.MethodDelete, "/orders/"+pathEscape(id), nil, nil)
}

// ExportRequest asks the backend to email the company data for a date range.
// Dates are YYYY-MM-DD.
type ExportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Email     string `json:"email"`
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (string, error) {
	var resp messageResponse
	err := c.do(ctx, "export", http.MethodPost, "/export", req, &resp)
	return resp.Message, err
}
