package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-stock-app/internal/category/repository"
	"github.com/fekuna/omnipos-stock-app/internal/category/usecase"
	invrepo "github.com/fekuna/omnipos-stock-app/internal/inventory/repository"
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

func TestCategoryHandler_Lifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cats := repository.NewMemoryRepository()
	items := invrepo.NewMemoryRepository()
	uc := usecase.NewCategoryUseCase(cats, items, nil, operation.NewTracker(), logger.NewNop())

	r := gin.New()
	NewCategoryHandler(uc, logger.NewNop()).Register(r.Group("/app"))

	w := serve(r, http.MethodPost, "/app/categories", `{"name":"Produce"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data model.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	w = serve(r, http.MethodPost, "/app/categories", `{"name":"Produce"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var twin struct {
		Data model.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &twin))

	w = serve(r, http.MethodPost, "/app/categories", `{"name":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.NoError(t, items.Add(model.Item{ID: "i1", Name: "Apple", Quantity: 3, Category: "Produce", CategoryID: created.Data.ID}))

	w = serve(r, http.MethodPut, "/app/categories/"+created.Data.ID, `{"name":"Fruit"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	apple, _ := items.FindByID("i1")
	assert.Equal(t, "Fruit", apple.Category)

	w = serve(r, http.MethodPut, "/app/categories/"+twin.Data.ID, `{"name":"Fruit"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodGet, "/app/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []model.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Fruit", list.Data[0].Name)
	assert.Equal(t, "Produce", list.Data[1].Name)

	w = serve(r, http.MethodDelete, "/app/categories/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, ok := items.FindByID("i1")
	assert.True(t, ok)

	w = serve(r, http.MethodDelete, "/app/categories/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
