package out

import (
	"context"
	"time"

	"confetti/internal/modules/conference/domain"
)

// ScheduleReader decodes a schedule file into a conference and its sessions.
type ScheduleReader interface {
	Read(ctx context.Context, path string) (domain.Schedule, error)
}

type ScheduleStore interface {
	// ReplaceSchedule upserts the conference and replaces all of its
	// sessions and speakers atomically.
	ReplaceSchedule(ctx context.Context, schedule domain.Schedule) error
	ListConferences(ctx context.Context) ([]domain.Conference, error)
	GetConference(ctx context.Context, id string) (domain.Conference, error)
	ListSessions(ctx context.Context, conferenceID string) ([]domain.Session, error)
	GetSession(ctx context.Context, conferenceID, sessionID string) (domain.Session, error)
}

type BookmarkStore interface {
	ListBookmarks(ctx context.Context, conferenceID, userID string) (domain.BookmarkSet, error)
	AddBookmark(ctx context.Context, conferenceID, userID, sessionID string, at time.Time) error
	RemoveBookmark(ctx context.Context, conferenceID, userID, sessionID string) error
}
