package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/category"
	"github.com/fekuna/omnipos-stock-app/internal/category/dto"
	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/categories")
	g.GET("", h.ListCategories)
	g.POST("", h.CreateCategory)
	g.PUT("/:id", h.RenameCategory)
	g.DELETE("/:id", h.DeleteCategory)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.uc.ListCategories(c.Request.Context())})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input dto.CreateCategoryInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": cat})
}

type renameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	var req renameRequest
	if err := httpio.Bind(c, &req); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}

	cat, err := h.uc.RenameCategory(c.Request.Context(), &dto.RenameCategoryInput{ID: c.Param("id"), Name: req.Name})
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cat})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
