package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// LocalLayout is how conference-local date-times are stored and compared.
// It carries no zone: sessions are always expressed in the conference's
// own wall-clock time.
const LocalLayout = "2006-01-02T15:04:05"

type Conference struct {
	ID       string
	Name     string
	TimeZone string
	Days     []time.Time
	Venue    Venue
}

type Venue struct {
	Name        string
	Address     string
	Description string
	Latitude    float64
	Longitude   float64
}

type Speaker struct {
	ID      string
	Name    string
	Company string
	Bio     string
}

type Session struct {
	ID          string
	Title       string
	Description string
	Type        string
	Language    string
	Room        string
	Tags        []string
	Speakers    []Speaker
	StartsAt    time.Time
	EndsAt      time.Time
}

// Location resolves the conference time zone, defaulting to UTC.
func (c Conference) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("conference %s time zone: %w", c.ID, err)
	}
	return loc, nil
}

// Year is the year of the first conference day.
func (c Conference) Year() int {
	if len(c.Days) == 0 {
		return 0
	}
	return c.Days[0].Year()
}

func (c Conference) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("conference id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("conference name is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("session %s: title is required", s.ID)
	}
	if s.StartsAt.IsZero() || s.EndsAt.IsZero() {
		return fmt.Errorf("session %s: start and end are required", s.ID)
	}
	if s.EndsAt.Before(s.StartsAt) {
		return fmt.Errorf("session %s: ends before it starts", s.ID)
	}
	return nil
}

// SpeakerNames lists the session's speaker names in order.
func (s Session) SpeakerNames() []string {
	names := make([]string, 0, len(s.Speakers))
	for _, sp := range s.Speakers {
		names = append(names, sp.Name)
	}
	return names
}

// SortSessions orders sessions by start, then room, then title.
func SortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.StartsAt.Equal(b.StartsAt) {
			return a.StartsAt.Before(b.StartsAt)
		}
		if a.Room != b.Room {
			return a.Room < b.Room
		}
		return a.Title < b.Title
	})
}

// Schedule is a conference together with all of its sessions.
type Schedule struct {
	Conference Conference
	Sessions   []Session
}

func (s Schedule) Validate() error {
	if err := s.Conference.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(s.Sessions))
	for _, session := range s.Sessions {
		if err := session.Validate(); err != nil {
			return err
		}
		if _, dup := seen[session.ID]; dup {
			return fmt.Errorf("duplicate session id %q", session.ID)
		}
		seen[session.ID] = struct{}{}
	}
	return nil
}
