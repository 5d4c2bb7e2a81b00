package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/export"
	"github.com/fekuna/omnipos-stock-app/internal/export/dto"
	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	uc     export.UseCase
	logger logger.ZapLogger
}

func NewExportHandler(uc export.UseCase, log logger.ZapLogger) *ExportHandler {
	return &ExportHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ExportHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/export", h.Export)
}

func (h *ExportHandler) Export(c *gin.Context) {
	var input dto.ExportInput
	if err := httpio.Bind(c, &input); err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	msg, err := h.uc.Export(c.Request.Context(), &input)
	if err != nil {
		httpio.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": msg})
}
