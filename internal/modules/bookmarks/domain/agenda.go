package domain

import "time"

// Agenda is a point-in-time export of one user's bookmarks at a conference.
type Agenda struct {
	ConferenceID   string
	ConferenceName string
	UserID         string
	GeneratedAt    time.Time
	State          Success
}
