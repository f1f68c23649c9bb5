package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"confetti/internal/modules/bookmarks/domain"
	bookmarksout "confetti/internal/modules/bookmarks/port/out"
	scheduledomain "confetti/internal/modules/schedule/domain"
	"confetti/internal/platform/clock"
	apperrors "confetti/internal/platform/errors"
)

// AgendaService computes one-shot bookmark splits outside of a live screen.
type AgendaService struct {
	clock  clock.Clock
	reader bookmarksout.SessionReader
	writer bookmarksout.AgendaWriter
	logger *slog.Logger
}

func NewAgendaService(clk clock.Clock, reader bookmarksout.SessionReader, writer bookmarksout.AgendaWriter, logger *slog.Logger) *AgendaService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgendaService{clock: clk, reader: reader, writer: writer, logger: logger}
}

// Snapshot splits the user's bookmarks around at, or around now when at is
// zero. It is the same computation the bookmarks screen performs.
func (s *AgendaService) Snapshot(ctx context.Context, conferenceID, userID string, at time.Time) (domain.Success, time.Time, error) {
	if conferenceID == "" {
		return domain.Success{}, time.Time{}, apperrors.ErrConferenceRequired
	}
	if at.IsZero() {
		at = s.clock.Now()
	}
	days, err := s.reader.SessionsByStartTime(ctx, conferenceID)
	if err != nil {
		return domain.Success{}, time.Time{}, err
	}
	bookmarks, err := s.reader.Bookmarks(ctx, conferenceID, userID)
	if err != nil {
		return domain.Success{}, time.Time{}, err
	}
	state := domain.Aggregate(scheduledomain.Success{
		Conference:          conferenceID,
		SessionsByStartTime: days,
		Bookmarks:           bookmarks,
	}, at)
	success, ok := state.(domain.Success)
	if !ok {
		return domain.Success{}, time.Time{}, fmt.Errorf("unexpected bookmarks state %T", state)
	}
	return success, at, nil
}

func (s *AgendaService) Export(ctx context.Context, conferenceID, userID, dir string, at time.Time) (string, domain.Success, error) {
	if strings.TrimSpace(dir) == "" {
		return "", domain.Success{}, fmt.Errorf("%w: export directory is required", apperrors.ErrInvalidInput)
	}
	conf, err := s.reader.GetConference(ctx, conferenceID)
	if err != nil {
		return "", domain.Success{}, err
	}
	state, at, err := s.Snapshot(ctx, conferenceID, userID, at)
	if err != nil {
		return "", domain.Success{}, err
	}
	path, err := s.writer.WriteAgenda(ctx, dir, domain.Agenda{
		ConferenceID:   conf.ID,
		ConferenceName: conf.Name,
		UserID:         userID,
		GeneratedAt:    at,
		State:          state,
	})
	if err != nil {
		return "", domain.Success{}, err
	}
	s.logger.Info("agenda exported",
		"conference", conferenceID,
		"path", path,
		"upcoming", state.UpcomingSessions.Count(),
		"past", state.PastSessions.Count())
	return path, state, nil
}
