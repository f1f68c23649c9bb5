package out

import (
	"context"

	conferencedomain "confetti/internal/modules/conference/domain"
	conferencedto "confetti/internal/modules/conference/dto"
	"confetti/internal/platform/stream"
)

// Repository is the part of the conference repository the session source
// reads from and forwards bookmark requests to.
type Repository interface {
	SessionsByStartTime(ctx context.Context, conferenceID string) ([]conferencedomain.Day, error)
	Bookmarks(ctx context.Context, conferenceID, userID string) (conferencedomain.BookmarkSet, error)
	WatchBookmarks(ctx context.Context, conferenceID, userID string) (stream.Observable[conferencedomain.BookmarkSet], error)
	AddBookmark(ctx context.Context, input conferencedto.BookmarkInput) error
	RemoveBookmark(ctx context.Context, input conferencedto.BookmarkInput) error
}
