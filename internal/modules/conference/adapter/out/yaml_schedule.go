package out

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"confetti/internal/modules/conference/domain"
	conferenceout "confetti/internal/modules/conference/port/out"
)

type scheduleFile struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	TimeZone string        `yaml:"timezone"`
	Days     []string      `yaml:"days"`
	Venue    venueFile     `yaml:"venue"`
	Speakers []speakerFile `yaml:"speakers"`
	Sessions []sessionFile `yaml:"sessions"`
}

type venueFile struct {
	Name        string  `yaml:"name"`
	Address     string  `yaml:"address"`
	Description string  `yaml:"description"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
}

type speakerFile struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Company string `yaml:"company"`
	Bio     string `yaml:"bio"`
}

type sessionFile struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Language    string   `yaml:"language"`
	Room        string   `yaml:"room"`
	Tags        []string `yaml:"tags"`
	Speakers    []string `yaml:"speakers"`
	StartsAt    string   `yaml:"starts_at"`
	EndsAt      string   `yaml:"ends_at"`
}

// YAMLScheduleReader reads conference schedules from YAML files. Session
// times are conference-local wall-clock times without a zone suffix.
type YAMLScheduleReader struct{}

var _ conferenceout.ScheduleReader = YAMLScheduleReader{}

func NewYAMLScheduleReader() YAMLScheduleReader {
	return YAMLScheduleReader{}
}

func (YAMLScheduleReader) Read(_ context.Context, path string) (domain.Schedule, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("read schedule: %w", err)
	}
	return DecodeSchedule(payload)
}

// DecodeSchedule parses a YAML schedule document.
func DecodeSchedule(payload []byte) (domain.Schedule, error) {
	file := scheduleFile{}
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return domain.Schedule{}, fmt.Errorf("decode schedule: %w", err)
	}

	conf := domain.Conference{
		ID:       file.ID,
		Name:     file.Name,
		TimeZone: file.TimeZone,
		Venue: domain.Venue{
			Name:        file.Venue.Name,
			Address:     file.Venue.Address,
			Description: file.Venue.Description,
			Latitude:    file.Venue.Latitude,
			Longitude:   file.Venue.Longitude,
		},
	}
	loc, err := conf.Location()
	if err != nil {
		return domain.Schedule{}, err
	}
	for _, d := range file.Days {
		day, err := time.ParseInLocation(dayLayout, d, loc)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("parse day %q: %w", d, err)
		}
		conf.Days = append(conf.Days, day)
	}

	speakers := make(map[string]domain.Speaker, len(file.Speakers))
	for _, sp := range file.Speakers {
		speakers[sp.ID] = domain.Speaker{ID: sp.ID, Name: sp.Name, Company: sp.Company, Bio: sp.Bio}
	}

	schedule := domain.Schedule{Conference: conf}
	for _, s := range file.Sessions {
		session := domain.Session{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Type:        s.Type,
			Language:    s.Language,
			Room:        s.Room,
			Tags:        s.Tags,
		}
		if session.StartsAt, err = parseLocal(s.StartsAt, loc); err != nil {
			return domain.Schedule{}, fmt.Errorf("session %s starts_at: %w", s.ID, err)
		}
		if session.EndsAt, err = parseLocal(s.EndsAt, loc); err != nil {
			return domain.Schedule{}, fmt.Errorf("session %s ends_at: %w", s.ID, err)
		}
		for _, id := range s.Speakers {
			sp, ok := speakers[id]
			if !ok {
				return domain.Schedule{}, fmt.Errorf("session %s: unknown speaker %q", s.ID, id)
			}
			session.Speakers = append(session.Speakers, sp)
		}
		schedule.Sessions = append(schedule.Sessions, session)
	}
	return schedule, nil
}

// parseLocal accepts "2006-01-02T15:04:05" or "2006-01-02T15:04".
func parseLocal(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.LocalLayout, value, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", value, loc)
}
