package in

import (
	"context"

	"confetti/internal/modules/schedule/domain"
	"confetti/internal/modules/schedule/dto"
	"confetti/internal/platform/stream"
)

type Usecase interface {
	Watch(ctx context.Context, input dto.WatchInput) stream.Observable[domain.State]
	AddBookmark(ctx context.Context, input dto.BookmarkInput) error
	RemoveBookmark(ctx context.Context, input dto.BookmarkInput) error
	ToggleBookmark(ctx context.Context, input dto.BookmarkInput) (dto.ToggleOutput, error)
}
