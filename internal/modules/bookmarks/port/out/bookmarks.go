package out

import (
	"context"

	"confetti/internal/modules/bookmarks/domain"
	conferencedomain "confetti/internal/modules/conference/domain"
	conferencedto "confetti/internal/modules/conference/dto"
)

// Repository receives bookmark requests. Results are observed through the
// session source, never through these calls.
type Repository interface {
	AddBookmark(ctx context.Context, input conferencedto.BookmarkInput) error
	RemoveBookmark(ctx context.Context, input conferencedto.BookmarkInput) error
}

// SessionReader reads the one-shot data a snapshot is computed from.
type SessionReader interface {
	GetConference(ctx context.Context, id string) (conferencedto.ConferenceOutput, error)
	SessionsByStartTime(ctx context.Context, conferenceID string) ([]conferencedomain.Day, error)
	Bookmarks(ctx context.Context, conferenceID, userID string) (conferencedomain.BookmarkSet, error)
}

type AgendaWriter interface {
	WriteAgenda(ctx context.Context, dir string, agenda domain.Agenda) (string, error)
}
