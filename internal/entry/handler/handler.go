package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/entry"
	"github.com/fekuna/omnipos-stock-app/internal/entry/dto"
	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
)

type EntryHandler struct {
	uc     entry.UseCase
	logger logger.ZapLogger
}

func NewEntryHandler(uc entry.UseCase, log logger.ZapLogger) *EntryHandler {
	return &EntryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *EntryHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/entry")
	g.GET("", h.State)
	g.PUT("/mode", h.SetMode)
	g.PUT("/category", h.SelectCategory)
	g.PUT("/item", h.SelectItem)
	g.PUT("/quantity", h.SetQuantity)
	g.POST("/quantity/step", h.Step)
	g.POST("/submit", h.Submit)
	g.POST("/cancel", h.Cancel)
	g.POST("/apply", h.Apply)
}

func (h *EntryHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.uc.State(c.Request.Context())})
}

func (h *EntryHandler) SetMode(c *gin.Context) {
	var input dto.ModeInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	h.respond(c)(h.uc.SetMode(c.Request.Context(), entry.Mode(input.Mode)))
}

func (h *EntryHandler) SelectCategory(c *gin.Context) {
	var input dto.SelectInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	h.respond(c)(h.uc.SelectCategory(c.Request.Context(), input.Name))
}

func (h *EntryHandler) SelectItem(c *gin.Context) {
	var input dto.SelectInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	h.respond(c)(h.uc.SelectItem(c.Request.Context(), input.Name))
}

func (h *EntryHandler) SetQuantity(c *gin.Context) {
	var input dto.QuantityInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	h.respond(c)(h.uc.SetQuantity(c.Request.Context(), input.Quantity))
}

func (h *EntryHandler) Step(c *gin.Context) {
	var input dto.StepInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	h.respond(c)(h.uc.Step(c.Request.Context(), input.Delta))
}

func (h *EntryHandler) Submit(c *gin.Context) {
	res, err := h.uc.Submit(c.Request.Context())
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *EntryHandler) Cancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.uc.Cancel(c.Request.Context())})
}

func (h *EntryHandler) Apply(c *gin.Context) {
	var input dto.ApplyInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	res, err := h.uc.Apply(c.Request.Context(), &input)
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *EntryHandler) respond(c *gin.Context) func(entry.State, error) {
	return func(st entry.State, err error) {
		if err != nil {
			httpio.Error(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": st})
	}
}
