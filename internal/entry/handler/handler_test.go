package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catrepo "github.com/fekuna/omnipos-stock-app/internal/category/repository"
	"github.com/fekuna/omnipos-stock-app/internal/entry"
	"github.com/fekuna/omnipos-stock-app/internal/entry/usecase"
	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/repository"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
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

func TestEntryHandler_SellFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cats := catrepo.NewMemoryRepository()
	cats.Add("Produce")
	items := repository.NewMemoryRepository()
	require.NoError(t, items.Add(model.Item{ID: "i-apple", Name: "Apple", Quantity: 10, Unit: "lbs", Category: "Produce"}))

	r := gin.New()
	uc := usecase.NewEntryUseCase(items, cats, nil, operation.NewTracker(), logger.NewNop())
	NewEntryHandler(uc, logger.NewNop()).Register(r.Group("/app"))

	steps := []struct {
		method, path, body string
	}{
		{http.MethodPut, "/app/entry/mode", `{"mode":"selling"}`},
		{http.MethodPut, "/app/entry/category", `{"name":"Produce"}`},
		{http.MethodPut, "/app/entry/item", `{"name":"Apple"}`},
		{http.MethodPut, "/app/entry/quantity", `{"quantity":50}`},
	}
	var st struct {
		Data entry.State `json:"data"`
	}
	for _, s := range steps {
		w := serve(r, s.method, s.path, s.body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	}
	assert.Equal(t, 10, st.Data.Quantity)
	assert.Equal(t, entry.QuantitySet, st.Data.Phase)

	w := serve(r, http.MethodPost, "/app/entry/submit", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, ok := items.FindByID("i-apple")
	assert.False(t, ok)

	w = serve(r, http.MethodPost, "/app/entry/apply", `{"mode":"selling","category":"Produce","item_name":"Apple","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntryHandler_InsufficientStock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cats := catrepo.NewMemoryRepository()
	cats.Add("Produce")
	items := repository.NewMemoryRepository()
	require.NoError(t, items.Add(model.Item{ID: "i-apple", Name: "Apple", Quantity: 10, Category: "Produce"}))

	r := gin.New()
	uc := usecase.NewEntryUseCase(items, cats, nil, nil, logger.NewNop())
	NewEntryHandler(uc, logger.NewNop()).Register(r.Group("/app"))

	w := serve(r, http.MethodPost, "/app/entry/apply", `{"mode":"selling","category":"Produce","item_name":"Apple","quantity":11}`)
	require.Equal(t, http.StatusConflict, w.Code)
	var body httpio.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "InsufficientStock", body.Error)
	assert.Contains(t, body.Message, "10")
}
