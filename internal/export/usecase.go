package export

import (
	"context"

	"github.com/fekuna/omnipos-stock-app/internal/api"
	"github.com/fekuna/omnipos-stock-app/internal/export/dto"
)

type UseCase interface {
	// Export asks the backend to email the data for the range and returns
	// its confirmation message.
	Export(ctx context.Context, input *dto.ExportInput) (string, error)
}

// Remote is satisfied by *api.Client.
type Remote interface {
	Export(ctx context.Context, req api.ExportRequest) (string, error)
}
