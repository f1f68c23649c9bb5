package in

import (
	"context"

	"confetti/internal/modules/conference/domain"
	"confetti/internal/modules/conference/dto"
	"confetti/internal/platform/stream"
)

type Usecase interface {
	ImportSchedule(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
	ListConferences(ctx context.Context) ([]dto.ConferenceOutput, error)
	ConferencesByYear(ctx context.Context) ([]dto.YearGroup, error)
	GetConference(ctx context.Context, id string) (dto.ConferenceOutput, error)
	ListSessions(ctx context.Context, conferenceID string) ([]domain.Session, error)
	SessionsByStartTime(ctx context.Context, conferenceID string) ([]domain.Day, error)
	GetSession(ctx context.Context, conferenceID, sessionID string) (domain.Session, error)
	ListSpeakers(ctx context.Context, conferenceID string) ([]domain.Speaker, error)
	AddBookmark(ctx context.Context, input dto.BookmarkInput) error
	RemoveBookmark(ctx context.Context, input dto.BookmarkInput) error
	Bookmarks(ctx context.Context, conferenceID, userID string) (domain.BookmarkSet, error)
	WatchBookmarks(ctx context.Context, conferenceID, userID string) (stream.Observable[domain.BookmarkSet], error)
}
