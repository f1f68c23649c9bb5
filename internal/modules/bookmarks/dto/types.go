package dto

import "time"

// SnapshotInput asks for the bookmarks split as of At. A zero At means now.
type SnapshotInput struct {
	ConferenceID string
	UserID       string
	At           time.Time
}

type SessionOutput struct {
	ID       string
	Title    string
	Room     string
	Speakers []string
	StartsAt time.Time
	EndsAt   time.Time
}

type SlotOutput struct {
	StartsAt time.Time
	Sessions []SessionOutput
}

type SnapshotOutput struct {
	ConferenceID string
	At           time.Time
	Bookmarks    int
	Past         []SlotOutput
	Upcoming     []SlotOutput
}

type ExportInput struct {
	ConferenceID string
	UserID       string
	Dir          string
	At           time.Time
}

type ExportOutput struct {
	Path     string
	Past     int
	Upcoming int
}
