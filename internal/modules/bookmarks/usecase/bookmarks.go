package usecase

import (
	"context"

	"confetti/internal/modules/bookmarks/domain"
	"confetti/internal/modules/bookmarks/dto"
	bookmarksin "confetti/internal/modules/bookmarks/port/in"
	"confetti/internal/modules/bookmarks/service"
)

type Interactor struct {
	agenda *service.AgendaService
}

func NewInteractor(agenda *service.AgendaService) bookmarksin.Usecase {
	return &Interactor{agenda: agenda}
}

func (i *Interactor) Snapshot(ctx context.Context, input dto.SnapshotInput) (dto.SnapshotOutput, error) {
	state, at, err := i.agenda.Snapshot(ctx, input.ConferenceID, input.UserID, input.At)
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	return dto.SnapshotOutput{
		ConferenceID: input.ConferenceID,
		At:           at,
		Bookmarks:    state.Bookmarks.Len(),
		Past:         toSlots(state.PastSessions),
		Upcoming:     toSlots(state.UpcomingSessions),
	}, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	path, state, err := i.agenda.Export(ctx, input.ConferenceID, input.UserID, input.Dir, input.At)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{
		Path:     path,
		Past:     state.PastSessions.Count(),
		Upcoming: state.UpcomingSessions.Count(),
	}, nil
}

func toSlots(m domain.DateSessionsMap) []dto.SlotOutput {
	slots := make([]dto.SlotOutput, 0, m.Len())
	for start, sessions := range m.All() {
		slot := dto.SlotOutput{StartsAt: start}
		for _, s := range sessions {
			slot.Sessions = append(slot.Sessions, dto.SessionOutput{
				ID:       s.ID,
				Title:    s.Title,
				Room:     s.Room,
				Speakers: s.SpeakerNames(),
				StartsAt: s.StartsAt,
				EndsAt:   s.EndsAt,
			})
		}
		slots = append(slots, slot)
	}
	return slots
}
