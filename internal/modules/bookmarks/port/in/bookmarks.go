package in

import (
	"context"

	"confetti/internal/modules/bookmarks/dto"
)

type Usecase interface {
	Snapshot(ctx context.Context, input dto.SnapshotInput) (dto.SnapshotOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
