package in

import (
	"context"

	conferencedto "confetti/internal/modules/conference/dto"
	conferencein "confetti/internal/modules/conference/port/in"
)

type CLIHandler struct {
	usecase conferencein.Usecase
}

func NewCLIHandler(usecase conferencein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Import(ctx context.Context, path string) (conferencedto.ImportOutput, error) {
	return h.usecase.ImportSchedule(ctx, conferencedto.ImportInput{Path: path})
}

func (h CLIHandler) ConferencesByYear(ctx context.Context) ([]conferencedto.YearGroup, error) {
	return h.usecase.ConferencesByYear(ctx)
}

func (h CLIHandler) AddBookmark(ctx context.Context, conferenceID, userID, sessionID string) error {
	return h.usecase.AddBookmark(ctx, conferencedto.BookmarkInput{ConferenceID: conferenceID, UserID: userID, SessionID: sessionID})
}

func (h CLIHandler) RemoveBookmark(ctx context.Context, conferenceID, userID, sessionID string) error {
	return h.usecase.RemoveBookmark(ctx, conferencedto.BookmarkInput{ConferenceID: conferenceID, UserID: userID, SessionID: sessionID})
}
