package dto

import (
	"time"

	authdomain "confetti/internal/modules/auth/domain"
)

type ImportInput struct {
	Path string
}

type ImportOutput struct {
	ConferenceID string
	Name         string
	Sessions     int
	Speakers     int
}

type VenueOutput struct {
	Name        string
	Address     string
	Description string
	Latitude    float64
	Longitude   float64
}

type ConferenceOutput struct {
	ID       string
	Name     string
	TimeZone string
	Year     int
	Days     []time.Time
	Venue    VenueOutput
}

// YearGroup lists the conferences that start in Year.
type YearGroup struct {
	Year        int
	Conferences []ConferenceOutput
}

// BookmarkInput identifies a bookmark mutation. UserID may be empty for an
// anonymous user; when User is set its UID takes precedence.
type BookmarkInput struct {
	ConferenceID string
	UserID       string
	User         *authdomain.User
	SessionID    string
}

func (in BookmarkInput) EffectiveUserID() string {
	if in.User != nil && in.User.UID != "" {
		return in.User.UID
	}
	return in.UserID
}
