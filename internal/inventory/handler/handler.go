package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/internal/inventory"
	"github.com/fekuna/omnipos-stock-app/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/inventory")
	g.GET("", h.ListItems)
	g.GET("/orphans", h.ListOrphans)
	g.POST("/refresh", h.Refresh)
	g.POST("/items", h.SaveItem)
	g.PUT("/items/:id", h.SaveItem)
	g.DELETE("/items/:name", h.DeleteItem)
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	items := h.uc.ListItems(c.Request.Context(), &dto.ItemFilters{Category: c.Query("category")})
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *InventoryHandler) ListOrphans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.uc.ListOrphans(c.Request.Context())})
}

func (h *InventoryHandler) Refresh(c *gin.Context) {
	if err := h.uc.Refresh(c.Request.Context()); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	h.ListItems(c)
}

func (h *InventoryHandler) SaveItem(c *gin.Context) {
	var input dto.SaveItemInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	if id := c.Param("id"); id != "" {
		input.ID = id
	}

	creating := input.ID == ""
	item, err := h.uc.SaveItem(c.Request.Context(), &input)
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": item})
}

// DeleteItem removes by item name; names are unique across categories.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	if err := h.uc.DeleteItem(c.Request.Context(), c.Param("name")); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
