package in

import (
	"context"
	"time"

	bookmarksdto "confetti/internal/modules/bookmarks/dto"
	bookmarksin "confetti/internal/modules/bookmarks/port/in"
)

type CLIHandler struct {
	usecase bookmarksin.Usecase
}

func NewCLIHandler(usecase bookmarksin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Snapshot(ctx context.Context, conferenceID, userID string, at time.Time) (bookmarksdto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx, bookmarksdto.SnapshotInput{ConferenceID: conferenceID, UserID: userID, At: at})
}

func (h CLIHandler) Export(ctx context.Context, conferenceID, userID, dir string, at time.Time) (bookmarksdto.ExportOutput, error) {
	return h.usecase.Export(ctx, bookmarksdto.ExportInput{ConferenceID: conferenceID, UserID: userID, Dir: dir, At: at})
}
