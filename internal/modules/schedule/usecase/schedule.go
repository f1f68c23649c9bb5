package usecase

import (
	"context"

	"confetti/internal/modules/schedule/domain"
	"confetti/internal/modules/schedule/dto"
	schedulein "confetti/internal/modules/schedule/port/in"
	"confetti/internal/modules/schedule/service"
	"confetti/internal/platform/stream"
)

type Interactor struct {
	source *service.Source
}

func NewInteractor(source *service.Source) schedulein.Usecase {
	return &Interactor{source: source}
}

func (i *Interactor) Watch(ctx context.Context, input dto.WatchInput) stream.Observable[domain.State] {
	return i.source.Watch(ctx, input.ConferenceID, input.UserID)
}

func (i *Interactor) AddBookmark(ctx context.Context, input dto.BookmarkInput) error {
	return i.source.AddBookmark(ctx, input.ConferenceID, input.UserID, input.SessionID)
}

func (i *Interactor) RemoveBookmark(ctx context.Context, input dto.BookmarkInput) error {
	return i.source.RemoveBookmark(ctx, input.ConferenceID, input.UserID, input.SessionID)
}

func (i *Interactor) ToggleBookmark(ctx context.Context, input dto.BookmarkInput) (dto.ToggleOutput, error) {
	on, err := i.source.ToggleBookmark(ctx, input.ConferenceID, input.UserID, input.SessionID)
	if err != nil {
		return dto.ToggleOutput{}, err
	}
	return dto.ToggleOutput{SessionID: input.SessionID, Bookmarked: on}, nil
}
