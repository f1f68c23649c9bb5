package in

import (
	"context"

	scheduledto "confetti/internal/modules/schedule/dto"
	schedulein "confetti/internal/modules/schedule/port/in"
)

type CLIHandler struct {
	usecase schedulein.Usecase
}

func NewCLIHandler(usecase schedulein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// ToggleBookmark flips one bookmark and reports whether it is now set.
func (h CLIHandler) ToggleBookmark(ctx context.Context, conferenceID, userID, sessionID string) (scheduledto.ToggleOutput, error) {
	return h.usecase.ToggleBookmark(ctx, scheduledto.BookmarkInput{
		ConferenceID: conferenceID,
		UserID:       userID,
		SessionID:    sessionID,
	})
}
