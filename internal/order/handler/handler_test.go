package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catrepo "github.com/fekuna/omnipos-stock-app/internal/category/repository"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/repository"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/internal/order/usecase"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestOrderHandler_CartFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cats := catrepo.NewMemoryRepository()
	produce, _ := cats.Add("Produce")
	items := repository.NewMemoryRepository()
	require.NoError(t, items.Add(model.Item{ID: "i-apple", Name: "Apple", Quantity: 3, Unit: "lbs", Category: "Produce", CategoryID: produce.ID}))

	r := gin.New()
	uc := usecase.NewOrderUseCase(items, cats, nil, operation.NewTracker(), logger.NewNop())
	NewOrderHandler(uc, logger.NewNop()).Register(r.Group("/app"))

	w := serve(r, http.MethodPost, "/app/cart/submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(r, http.MethodPost, "/app/cart/lines", `{"category_id":"`+produce.ID+`","item_id":"i-apple","quantity":4}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodPost, "/app/cart/lines", `{"category_id":"`+produce.ID+`","item_id":"i-apple","quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodPost, "/app/cart/lines/i-apple/increment", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(r, http.MethodPost, "/app/cart/lines/i-apple/increment", "")
	require.Equal(t, http.StatusOK, w.Code)
	var line struct {
		Data model.OrderLine `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))
	assert.Equal(t, 3, line.Data.Quantity)

	w = serve(r, http.MethodPost, "/app/cart/submit", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodGet, "/app/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	var orders struct {
		Data []model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders.Data, 1)
}

func TestOrderHandler_Swipe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cats := catrepo.NewMemoryRepository()
	produce, _ := cats.Add("Produce")
	items := repository.NewMemoryRepository()
	require.NoError(t, items.Add(model.Item{ID: "i-apple", Name: "Apple", Quantity: 3, Category: "Produce", CategoryID: produce.ID}))

	r := gin.New()
	uc := usecase.NewOrderUseCase(items, cats, nil, nil, logger.NewNop())
	NewOrderHandler(uc, logger.NewNop()).Register(r.Group("/app"))

	w := serve(r, http.MethodPost, "/app/cart/lines", `{"category_id":"`+produce.ID+`","item_id":"i-apple","quantity":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, http.MethodPost, "/app/cart/lines/i-apple/swipe", `{"points":[{"x":300,"y":10},{"x":200,"y":12}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"outcome":"commit"}}`, w.Body.String())

	w = serve(r, http.MethodGet, "/app/cart", "")
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}
