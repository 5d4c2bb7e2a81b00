package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-stock-app/internal/api"
	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/internal/export/dto"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRemote struct {
	exportFn func(ctx context.Context, req api.ExportRequest) (string, error)
}

func (m *mockRemote) Export(ctx context.Context, req api.ExportRequest) (string, error) {
	return m.exportFn(ctx, req)
}

func TestExport(t *testing.T) {
	var got []api.ExportRequest
	remote := &mockRemote{exportFn: func(_ context.Context, req api.ExportRequest) (string, error) {
		got = append(got, req)
		return "Export queued", nil
	}}
	uc := NewExportUseCase(remote, operation.NewTracker(), logger.NewNop())
	ctx := context.Background()

	tests := []struct {
		name  string
		ctx   context.Context
		input dto.ExportInput
		err   error
	}{
		{"missing dates", ctx, dto.ExportInput{Email: "a@b.co"}, apperror.ErrValidation},
		{"bad date", ctx, dto.ExportInput{StartDate: "2026-13-01", EndDate: "2026-01-02", Email: "a@b.co"}, apperror.ErrValidation},
		{"reversed range", ctx, dto.ExportInput{StartDate: "2026-02-01", EndDate: "2026-01-01", Email: "a@b.co"}, apperror.ErrValidation},
		{"no email anywhere", ctx, dto.ExportInput{StartDate: "2026-01-01", EndDate: "2026-01-31"}, apperror.ErrValidation},
		{"explicit email", ctx, dto.ExportInput{StartDate: "2026-01-01", EndDate: "2026-01-01", Email: "a@b.co"}, nil},
		{"email from user", auth.WithUser(ctx, &model.User{Email: "chef@example.com"}), dto.ExportInput{StartDate: "2026-01-01", EndDate: "2026-01-31"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := uc.Export(tc.ctx, &tc.input)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Export queued", msg)
		})
	}

	require.Len(t, got, 2)
	assert.Equal(t, "a@b.co", got[0].Email)
	assert.Equal(t, "chef@example.com", got[1].Email)
}
