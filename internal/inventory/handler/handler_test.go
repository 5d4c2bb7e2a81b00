package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catrepo "github.com/fekuna/omnipos-stock-app/internal/category/repository"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/repository"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/usecase"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *repository.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cats := catrepo.NewMemoryRepository()
	cats.Add("Produce")
	items := repository.NewMemoryRepository()
	uc := usecase.NewInventoryUseCase(items, cats, nil, nil, operation.NewTracker(), logger.NewNop())

	r := gin.New()
	NewInventoryHandler(uc, logger.NewNop()).Register(r.Group("/app"))
	return r, items
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestInventoryHandler(t *testing.T) {
	r, items := newRouter(t)

	w := serve(r, http.MethodPost, "/app/inventory/items", `{"name":"Apple","quantity":10,"unit":"lbs","category":"Produce","price":"1.20"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data model.Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Apple", created.Data.Name)
	assert.Equal(t, "1.2", created.Data.Price.Decimal.String())

	w = serve(r, http.MethodPut, "/app/inventory/items/"+created.Data.ID, `{"name":"Apple","quantity":4,"unit":"lbs","category":"Produce"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stock, _ := items.Stock(created.Data.ID)
	assert.Equal(t, 4, stock)

	w = serve(r, http.MethodGet, "/app/inventory?category=Produce", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []model.Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 1)

	w = serve(r, http.MethodDelete, "/app/inventory/items/Apple", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodDelete, "/app/inventory/items/Apple", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryHandler_Validation(t *testing.T) {
	r, items := newRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"negative quantity", `{"name":"Apple","quantity":-1,"category":"Produce"}`, http.StatusUnprocessableEntity},
		{"missing name", `{"quantity":1,"category":"Produce"}`, http.StatusUnprocessableEntity},
		{"bad json", `{`, http.StatusUnprocessableEntity},
		{"unknown category", `{"name":"Apple","quantity":1,"category":"Bakery"}`, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/app/inventory/items", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, items.List())
}
