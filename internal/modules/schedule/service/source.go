package service

import (
	"context"
	"log/slog"

	conferencedto "confetti/internal/modules/conference/dto"
	"confetti/internal/modules/schedule/domain"
	scheduleout "confetti/internal/modules/schedule/port/out"
	apperrors "confetti/internal/platform/errors"
	"confetti/internal/platform/stream"
)

// Source turns the conference repository into an observable session State.
type Source struct {
	repo   scheduleout.Repository
	logger *slog.Logger
}

func NewSource(repo scheduleout.Repository, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{repo: repo, logger: logger}
}

// Watch starts in Loading, loads the conference's sessions once and then
// publishes a Success for every bookmark set the repository emits. Load
// failures publish Error. The returned value closes when ctx ends.
func (s *Source) Watch(ctx context.Context, conferenceID, userID string) *stream.Value[domain.State] {
	out := stream.NewValue[domain.State](domain.Loading{})
	go func() {
		defer out.Close()
		if err := s.follow(ctx, out, conferenceID, userID); err != nil && ctx.Err() == nil {
			s.logger.Warn("session source failed", "conference", conferenceID, "error", err)
			out.Set(domain.Error{Err: err})
		}
		<-ctx.Done()
	}()
	return out
}

func (s *Source) follow(ctx context.Context, out *stream.Value[domain.State], conferenceID, userID string) error {
	if conferenceID == "" {
		return apperrors.ErrConferenceRequired
	}
	days, err := s.repo.SessionsByStartTime(ctx, conferenceID)
	if err != nil {
		return err
	}
	bookmarks, err := s.repo.WatchBookmarks(ctx, conferenceID, userID)
	if err != nil {
		return err
	}
	for set := range bookmarks.Subscribe(ctx) {
		out.Set(domain.Success{
			Conference:          conferenceID,
			SessionsByStartTime: days,
			Bookmarks:           set,
		})
	}
	return nil
}

func (s *Source) AddBookmark(ctx context.Context, conferenceID, userID, sessionID string) error {
	return s.repo.AddBookmark(ctx, conferencedto.BookmarkInput{ConferenceID: conferenceID, UserID: userID, SessionID: sessionID})
}

func (s *Source) RemoveBookmark(ctx context.Context, conferenceID, userID, sessionID string) error {
	return s.repo.RemoveBookmark(ctx, conferencedto.BookmarkInput{ConferenceID: conferenceID, UserID: userID, SessionID: sessionID})
}

// ToggleBookmark flips the bookmark against the stored set and reports the
// resulting membership.
func (s *Source) ToggleBookmark(ctx context.Context, conferenceID, userID, sessionID string) (bool, error) {
	current, err := s.repo.Bookmarks(ctx, conferenceID, userID)
	if err != nil {
		return false, err
	}
	if current.Has(sessionID) {
		return false, s.RemoveBookmark(ctx, conferenceID, userID, sessionID)
	}
	return true, s.AddBookmark(ctx, conferenceID, userID, sessionID)
}
