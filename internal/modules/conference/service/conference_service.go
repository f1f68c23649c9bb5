package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"confetti/internal/modules/conference/domain"
	conferenceout "confetti/internal/modules/conference/port/out"
	"confetti/internal/platform/clock"
	apperrors "confetti/internal/platform/errors"
	"confetti/internal/platform/stream"
)

type bookmarkKey struct {
	conferenceID string
	userID       string
}

type ConferenceService struct {
	clock     clock.Clock
	reader    conferenceout.ScheduleReader
	schedules conferenceout.ScheduleStore
	bookmarks conferenceout.BookmarkStore
	logger    *slog.Logger

	mu       sync.Mutex
	watchers map[bookmarkKey]*stream.Value[domain.BookmarkSet]
}

func NewConferenceService(
	clk clock.Clock,
	reader conferenceout.ScheduleReader,
	schedules conferenceout.ScheduleStore,
	bookmarks conferenceout.BookmarkStore,
	logger *slog.Logger,
) *ConferenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConferenceService{
		clock:     clk,
		reader:    reader,
		schedules: schedules,
		bookmarks: bookmarks,
		logger:    logger,
		watchers:  map[bookmarkKey]*stream.Value[domain.BookmarkSet]{},
	}
}

func (s *ConferenceService) Import(ctx context.Context, path string) (domain.Schedule, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Schedule{}, fmt.Errorf("%w: schedule path is required", apperrors.ErrInvalidInput)
	}
	schedule, err := s.reader.Read(ctx, path)
	if err != nil {
		return domain.Schedule{}, err
	}
	if err := schedule.Validate(); err != nil {
		return domain.Schedule{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if len(schedule.Conference.Days) == 0 {
		schedule.Conference.Days = daysOf(schedule.Sessions)
	}
	domain.SortSessions(schedule.Sessions)
	if err := s.schedules.ReplaceSchedule(ctx, schedule); err != nil {
		return domain.Schedule{}, err
	}
	s.logger.Info("schedule imported",
		"conference", schedule.Conference.ID,
		"sessions", len(schedule.Sessions))
	return schedule, nil
}

func (s *ConferenceService) ListConferences(ctx context.Context) ([]domain.Conference, error) {
	return s.schedules.ListConferences(ctx)
}

// ConferencesByYear groups conferences by the year of their first day,
// newest year first. Within a year conferences are ordered by first day.
func (s *ConferenceService) ConferencesByYear(ctx context.Context) (map[int][]domain.Conference, []int, error) {
	conferences, err := s.schedules.ListConferences(ctx)
	if err != nil {
		return nil, nil, err
	}
	byYear := map[int][]domain.Conference{}
	for _, c := range conferences {
		byYear[c.Year()] = append(byYear[c.Year()], c)
	}
	years := make([]int, 0, len(byYear))
	for year, list := range byYear {
		years = append(years, year)
		sort.SliceStable(list, func(i, j int) bool {
			return firstDay(list[i]).Before(firstDay(list[j]))
		})
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return byYear, years, nil
}

func (s *ConferenceService) GetConference(ctx context.Context, id string) (domain.Conference, error) {
	if id == "" {
		return domain.Conference{}, apperrors.ErrConferenceRequired
	}
	return s.schedules.GetConference(ctx, id)
}

func (s *ConferenceService) ListSessions(ctx context.Context, conferenceID string) ([]domain.Session, error) {
	if conferenceID == "" {
		return nil, apperrors.ErrConferenceRequired
	}
	return s.schedules.ListSessions(ctx, conferenceID)
}

func (s *ConferenceService) GetSession(ctx context.Context, conferenceID, sessionID string) (domain.Session, error) {
	if conferenceID == "" {
		return domain.Session{}, apperrors.ErrConferenceRequired
	}
	return s.schedules.GetSession(ctx, conferenceID, sessionID)
}

// ListSpeakers returns every distinct speaker of the conference by name.
func (s *ConferenceService) ListSpeakers(ctx context.Context, conferenceID string) ([]domain.Speaker, error) {
	sessions, err := s.ListSessions(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var speakers []domain.Speaker
	for _, session := range sessions {
		for _, sp := range session.Speakers {
			if _, ok := seen[sp.ID]; ok {
				continue
			}
			seen[sp.ID] = struct{}{}
			speakers = append(speakers, sp)
		}
	}
	sort.SliceStable(speakers, func(i, j int) bool { return speakers[i].Name < speakers[j].Name })
	return speakers, nil
}

func (s *ConferenceService) Bookmarks(ctx context.Context, conferenceID, userID string) (domain.BookmarkSet, error) {
	if conferenceID == "" {
		return nil, apperrors.ErrConferenceRequired
	}
	return s.bookmarks.ListBookmarks(ctx, conferenceID, userID)
}

func (s *ConferenceService) AddBookmark(ctx context.Context, conferenceID, userID, sessionID string) error {
	if _, err := s.GetSession(ctx, conferenceID, sessionID); err != nil {
		return err
	}
	if err := s.bookmarks.AddBookmark(ctx, conferenceID, userID, sessionID, s.clock.Now()); err != nil {
		return err
	}
	return s.publish(ctx, conferenceID, userID)
}

func (s *ConferenceService) RemoveBookmark(ctx context.Context, conferenceID, userID, sessionID string) error {
	if conferenceID == "" {
		return apperrors.ErrConferenceRequired
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if err := s.bookmarks.RemoveBookmark(ctx, conferenceID, userID, sessionID); err != nil {
		return err
	}
	return s.publish(ctx, conferenceID, userID)
}

// WatchBookmarks returns the shared observable bookmark set for a user at a
// conference. It is republished after every successful add or remove made
// through this service.
func (s *ConferenceService) WatchBookmarks(ctx context.Context, conferenceID, userID string) (stream.Observable[domain.BookmarkSet], error) {
	if conferenceID == "" {
		return nil, apperrors.ErrConferenceRequired
	}
	key := bookmarkKey{conferenceID: conferenceID, userID: userID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.watchers[key]; ok {
		return v, nil
	}
	current, err := s.bookmarks.ListBookmarks(ctx, conferenceID, userID)
	if err != nil {
		return nil, err
	}
	v := stream.NewValue(current)
	s.watchers[key] = v
	return v, nil
}

// Close ends every bookmark watch.
func (s *ConferenceService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, v := range s.watchers {
		v.Close()
		delete(s.watchers, key)
	}
}

func (s *ConferenceService) publish(ctx context.Context, conferenceID, userID string) error {
	key := bookmarkKey{conferenceID: conferenceID, userID: userID}

	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.watchers[key]
	if !ok {
		return nil
	}
	current, err := s.bookmarks.ListBookmarks(ctx, conferenceID, userID)
	if err != nil {
		return fmt.Errorf("refresh bookmarks: %w", err)
	}
	v.Set(current)
	return nil
}

func daysOf(sessions []domain.Session) []time.Time {
	groups := domain.GroupByDay(sessions)
	days := make([]time.Time, 0, len(groups))
	for _, day := range groups {
		days = append(days, day.Date)
	}
	return days
}

func firstDay(c domain.Conference) time.Time {
	if len(c.Days) == 0 {
		return time.Time{}
	}
	return c.Days[0]
}
