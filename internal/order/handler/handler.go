package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/internal/order"
	"github.com/fekuna/omnipos-stock-app/internal/order/dto"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) Register(rg *gin.RouterGroup) {
	c := rg.Group("/cart")
	c.GET("", h.Lines)
	c.DELETE("", h.Clear)
	c.GET("/available/:categoryId", h.Available)
	c.POST("/lines", h.AddLine)
	c.POST("/lines/:id/increment", h.Increment)
	c.POST("/lines/:id/decrement", h.Decrement)
	c.POST("/lines/:id/swipe", h.Swipe)
	c.DELETE("/lines/:id", h.RemoveLine)
	c.POST("/submit", h.Submit)

	o := rg.Group("/orders")
	o.GET("", h.ListOrders)
	o.GET("/:id", h.GetOrder)
	o.DELETE("/:id", h.DeleteOrder)
}

func (h *OrderHandler) Lines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.uc.Lines(c.Request.Context())})
}

func (h *OrderHandler) Clear(c *gin.Context) {
	h.uc.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) Available(c *gin.Context) {
	items, err := h.uc.Available(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *OrderHandler) AddLine(c *gin.Context) {
	var input dto.AddLineInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	line, err := h.uc.AddLine(c.Request.Context(), &input)
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": line})
}

func (h *OrderHandler) Increment(c *gin.Context) {
	line, err := h.uc.Increment(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": line})
}

func (h *OrderHandler) Decrement(c *gin.Context) {
	line, err := h.uc.Decrement(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	if line == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": line})
}

func (h *OrderHandler) Swipe(c *gin.Context) {
	var input dto.SwipeInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	outcome := h.uc.Swipe(c.Request.Context(), c.Param("id"), input.Points)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"outcome": outcome}})
}

func (h *OrderHandler) RemoveLine(c *gin.Context) {
	h.uc.RemoveLine(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) Submit(c *gin.Context) {
	created, err := h.uc.Submit(c.Request.Context())
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.uc.ListOrders(c.Request.Context())
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.uc.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
