package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/api"
	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/internal/export"
	"github.com/fekuna/omnipos-stock-app/internal/export/dto"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/internal/validation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"go.uber.org/zap"
)

type exportUseCase struct {
	remote  export.Remote
	tracker *operation.Tracker
	logger  logger.ZapLogger
}

func NewExportUseCase(remote export.Remote, tracker *operation.Tracker, log logger.ZapLogger) export.UseCase {
	return &exportUseCase{
		remote:  remote,
		tracker: tracker,
		logger:  log,
	}
}

func (uc *exportUseCase) Export(ctx context.Context, input *dto.ExportInput) (string, error) {
	if err := validation.Struct(input); err != nil {
		return "", err
	}

	start, _ := time.Parse(dto.DateLayout, input.StartDate)
	end, _ := time.Parse(dto.DateLayout, input.EndDate)
	if end.Before(start) {
		return "", apperror.Validation("end_date", "must not be before start_date")
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		if u, ok := auth.UserFromContext(ctx); ok {
			email = u.Email
		}
	}
	if email == "" {
		return "", apperror.Validation("email", "is required")
	}

	done, err := uc.tracker.Begin(operation.Export)
	if err != nil {
		return "", err
	}
	defer done()

	msg, err := uc.remote.Export(ctx, api.ExportRequest{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Email:     email,
	})
	if err != nil {
		uc.logger.Error("export failed", zap.Error(err))
		return "", err
	}

	uc.logger.Info("export requested",
		zap.String("start_date", input.StartDate),
		zap.String("end_date", input.EndDate),
	)
	return msg, nil
}
