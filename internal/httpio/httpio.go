// Package httpio holds the request binding and error rendering shared by the
// bridge handlers.
package httpio

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/validation"
	"github.com/fekuna/omnipos-stock-app/pkg/i18n"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Bind decodes the JSON body into dst and validates it.
func Bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.Validation("", "invalid json body")
	}
	return validation.Struct(dst)
}

// Error writes err as a localized JSON error with the matching status.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	status, code, data := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorBody{
		Error:   code,
		Message: i18n.T(code, data, c.GetHeader("Accept-Language")),
	})
}

// Localized writes a non-error message, e.g. for guard redirects.
func Localized(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Error:   code,
		Message: i18n.T(code, nil, c.GetHeader("Accept-Language")),
	})
}

func classify(err error) (int, string, map[string]any) {
	var (
		insufficient *apperror.InsufficientStockError
		exceeds      *apperror.ExceedsAvailableError
		remote       *apperror.RemoteError
		invalid      *apperror.ValidationError
	)

	switch {
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, "ValidationError", map[string]any{"Detail": invalid.Field + " " + invalid.Reason}
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusUnprocessableEntity, "ValidationError", map[string]any{"Detail": err.Error()}
	case errors.Is(err, apperror.ErrItemNotFound):
		return http.StatusNotFound, "ItemNotFound", nil
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "NotFound", nil
	case errors.Is(err, apperror.ErrDuplicateName):
		return http.StatusConflict, "DuplicateName", nil
	case errors.As(err, &insufficient):
		return http.StatusConflict, "InsufficientStock", map[string]any{"Available": insufficient.Available}
	case errors.As(err, &exceeds):
		return http.StatusConflict, "ExceedsAvailable", map[string]any{"Requested": exceeds.Requested, "Available": exceeds.Available}
	case errors.Is(err, apperror.ErrAlreadyPresent):
		return http.StatusConflict, "AlreadyPresent", nil
	case errors.Is(err, apperror.ErrInFlight):
		return http.StatusTooManyRequests, "InFlight", nil
	case errors.As(err, &remote):
		if remote.Status == http.StatusUnauthorized {
			return http.StatusUnauthorized, "Unauthenticated", nil
		}
		msg := remote.Message
		if msg == "" && remote.Err != nil {
			msg = remote.Err.Error()
		}
		return http.StatusBadGateway, "RemoteFailure", map[string]any{"Message": msg}
	}
	return http.StatusInternalServerError, "InternalError", nil
}
