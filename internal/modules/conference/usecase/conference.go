package usecase

import (
	"context"

	"confetti/internal/modules/conference/domain"
	"confetti/internal/modules/conference/dto"
	conferencein "confetti/internal/modules/conference/port/in"
	"confetti/internal/modules/conference/service"
	"confetti/internal/platform/stream"
)

type Interactor struct {
	svc *service.ConferenceService
}

func NewInteractor(svc *service.ConferenceService) conferencein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ImportSchedule(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error) {
	schedule, err := i.svc.Import(ctx, input.Path)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	speakers := map[string]struct{}{}
	for _, s := range schedule.Sessions {
		for _, sp := range s.Speakers {
			speakers[sp.ID] = struct{}{}
		}
	}
	return dto.ImportOutput{
		ConferenceID: schedule.Conference.ID,
		Name:         schedule.Conference.Name,
		Sessions:     len(schedule.Sessions),
		Speakers:     len(speakers),
	}, nil
}

func (i *Interactor) ListConferences(ctx context.Context) ([]dto.ConferenceOutput, error) {
	conferences, err := i.svc.ListConferences(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConferenceOutput, 0, len(conferences))
	for _, c := range conferences {
		out = append(out, toOutput(c))
	}
	return out, nil
}

func (i *Interactor) ConferencesByYear(ctx context.Context) ([]dto.YearGroup, error) {
	byYear, years, err := i.svc.ConferencesByYear(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]dto.YearGroup, 0, len(years))
	for _, year := range years {
		group := dto.YearGroup{Year: year}
		for _, c := range byYear[year] {
			group.Conferences = append(group.Conferences, toOutput(c))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (i *Interactor) GetConference(ctx context.Context, id string) (dto.ConferenceOutput, error) {
	c, err := i.svc.GetConference(ctx, id)
	if err != nil {
		return dto.ConferenceOutput{}, err
	}
	return toOutput(c), nil
}

func (i *Interactor) ListSessions(ctx context.Context, conferenceID string) ([]domain.Session, error) {
	return i.svc.ListSessions(ctx, conferenceID)
}

func (i *Interactor) SessionsByStartTime(ctx context.Context, conferenceID string) ([]domain.Day, error) {
	sessions, err := i.svc.ListSessions(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	return domain.GroupByDay(sessions), nil
}

func (i *Interactor) GetSession(ctx context.Context, conferenceID, sessionID string) (domain.Session, error) {
	return i.svc.GetSession(ctx, conferenceID, sessionID)
}

func (i *Interactor) ListSpeakers(ctx context.Context, conferenceID string) ([]domain.Speaker, error) {
	return i.svc.ListSpeakers(ctx, conferenceID)
}

func (i *Interactor) AddBookmark(ctx context.Context, input dto.BookmarkInput) error {
	return i.svc.AddBookmark(ctx, input.ConferenceID, input.EffectiveUserID(), input.SessionID)
}

func (i *Interactor) RemoveBookmark(ctx context.Context, input dto.BookmarkInput) error {
	return i.svc.RemoveBookmark(ctx, input.ConferenceID, input.EffectiveUserID(), input.SessionID)
}

func (i *Interactor) Bookmarks(ctx context.Context, conferenceID, userID string) (domain.BookmarkSet, error) {
	return i.svc.Bookmarks(ctx, conferenceID, userID)
}

func (i *Interactor) WatchBookmarks(ctx context.Context, conferenceID, userID string) (stream.Observable[domain.BookmarkSet], error) {
	return i.svc.WatchBookmarks(ctx, conferenceID, userID)
}

func toOutput(c domain.Conference) dto.ConferenceOutput {
	return dto.ConferenceOutput{
		ID:       c.ID,
		Name:     c.Name,
		TimeZone: c.TimeZone,
		Year:     c.Year(),
		Days:     c.Days,
		Venue: dto.VenueOutput{
			Name:        c.Venue.Name,
			Address:     c.Venue.Address,
			Description: c.Venue.Description,
			Latitude:    c.Venue.Latitude,
			Longitude:   c.Venue.Longitude,
		},
	}
}
