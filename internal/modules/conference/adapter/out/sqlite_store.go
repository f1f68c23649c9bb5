package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"confetti/internal/modules/conference/domain"
	conferenceout "confetti/internal/modules/conference/port/out"
	apperrors "confetti/internal/platform/errors"
	"confetti/internal/platform/storage"
)

const dayLayout = "2006-01-02"

// SQLiteStore persists schedules and bookmarks in the local database.
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ conferenceout.ScheduleStore = (*SQLiteStore)(nil)
	_ conferenceout.BookmarkStore = (*SQLiteStore)(nil)
)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) ReplaceSchedule(ctx context.Context, schedule domain.Schedule) error {
	c := schedule.Conference
	days := make([]string, 0, len(c.Days))
	for _, d := range c.Days {
		days = append(days, d.Format(dayLayout))
	}

	return storage.Within(ctx, s.db, func(tx *sql.Tx) error {
		upsert := storage.Builder.
			Insert("conferences").
			Columns("id", "name", "time_zone", "days", "venue_name", "venue_address", "venue_description", "venue_latitude", "venue_longitude", "updated_at").
			Values(c.ID, c.Name, c.TimeZone, strings.Join(days, ","), c.Venue.Name, c.Venue.Address, c.Venue.Description, c.Venue.Latitude, c.Venue.Longitude, time.Now().UTC().Format(time.RFC3339)).
			Suffix(`ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  time_zone=excluded.time_zone,
  days=excluded.days,
  venue_name=excluded.venue_name,
  venue_address=excluded.venue_address,
  venue_description=excluded.venue_description,
  venue_latitude=excluded.venue_latitude,
  venue_longitude=excluded.venue_longitude,
  updated_at=excluded.updated_at`)
		if err := exec(ctx, tx, upsert); err != nil {
			return fmt.Errorf("upsert conference: %w", err)
		}

		for _, table := range []string{"session_speakers", "speakers", "sessions"} {
			if err := exec(ctx, tx, storage.Builder.Delete(table).Where(sq.Eq{"conference_id": c.ID})); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		speakers := map[string]domain.Speaker{}
		for pos, session := range schedule.Sessions {
			tags, err := json.Marshal(session.Tags)
			if err != nil {
				return fmt.Errorf("encode tags: %w", err)
			}
			insert := storage.Builder.
				Insert("sessions").
				Columns("conference_id", "id", "title", "description", "type", "language", "room", "tags", "starts_at", "ends_at", "position").
				Values(c.ID, session.ID, session.Title, session.Description, session.Type, session.Language, session.Room, string(tags),
					session.StartsAt.Format(domain.LocalLayout), session.EndsAt.Format(domain.LocalLayout), pos)
			if err := exec(ctx, tx, insert); err != nil {
				return fmt.Errorf("insert session %s: %w", session.ID, err)
			}
			for spPos, sp := range session.Speakers {
				speakers[sp.ID] = sp
				link := storage.Builder.
					Insert("session_speakers").
					Columns("conference_id", "session_id", "speaker_id", "position").
					Values(c.ID, session.ID, sp.ID, spPos)
				if err := exec(ctx, tx, link); err != nil {
					return fmt.Errorf("link speaker %s: %w", sp.ID, err)
				}
			}
		}
		for _, sp := range speakers {
			insert := storage.Builder.
				Insert("speakers").
				Columns("conference_id", "id", "name", "company", "bio").
				Values(c.ID, sp.ID, sp.Name, sp.Company, sp.Bio)
			if err := exec(ctx, tx, insert); err != nil {
				return fmt.Errorf("insert speaker %s: %w", sp.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) ListConferences(ctx context.Context) ([]domain.Conference, error) {
	query, args, err := conferenceSelect().OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	defer rows.Close()

	var out []domain.Conference
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetConference(ctx context.Context, id string) (domain.Conference, error) {
	query, args, err := conferenceSelect().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Conference{}, err
	}
	c, err := scanConference(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conference{}, fmt.Errorf("conference %q: %w", id, apperrors.ErrNotFound)
	}
	return c, err
}

func (s *SQLiteStore) ListSessions(ctx context.Context, conferenceID string) ([]domain.Session, error) {
	return s.sessions(ctx, conferenceID, nil)
}

func (s *SQLiteStore) GetSession(ctx context.Context, conferenceID, sessionID string) (domain.Session, error) {
	sessions, err := s.sessions(ctx, conferenceID, sq.Eq{"id": sessionID})
	if err != nil {
		return domain.Session{}, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, fmt.Errorf("session %q: %w", sessionID, apperrors.ErrNotFound)
	}
	return sessions[0], nil
}

func (s *SQLiteStore) ListBookmarks(ctx context.Context, conferenceID, userID string) (domain.BookmarkSet, error) {
	query, args, err := storage.Builder.
		Select("session_id").
		From("bookmarks").
		Where(sq.Eq{"conference_id": conferenceID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	set := domain.BookmarkSet{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		set[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return set, nil
}

func (s *SQLiteStore) AddBookmark(ctx context.Context, conferenceID, userID, sessionID string, at time.Time) error {
	insert := storage.Builder.
		Insert("bookmarks").
		Columns("conference_id", "user_id", "session_id", "created_at").
		Values(conferenceID, userID, sessionID, at.UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(conference_id, user_id, session_id) DO NOTHING")
	if err := exec(ctx, s.db, insert); err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveBookmark(ctx context.Context, conferenceID, userID, sessionID string) error {
	del := storage.Builder.
		Delete("bookmarks").
		Where(sq.Eq{"conference_id": conferenceID, "user_id": userID, "session_id": sessionID})
	if err := exec(ctx, s.db, del); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

func (s *SQLiteStore) sessions(ctx context.Context, conferenceID string, filter sq.Sqlizer) ([]domain.Session, error) {
	conf, err := s.GetConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}

	sel := storage.Builder.
		Select("id", "title", "description", "type", "language", "room", "tags", "starts_at", "ends_at").
		From("sessions").
		Where(sq.Eq{"conference_id": conferenceID}).
		OrderBy("position")
	if filter != nil {
		sel = sel.Where(filter)
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var out []domain.Session
	for rows.Next() {
		var (
			session                       domain.Session
			description, kind, lang, room sql.NullString
			tags, startsAt, endsAt        string
		)
		if err := rows.Scan(&session.ID, &session.Title, &description, &kind, &lang, &room, &tags, &startsAt, &endsAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.Description = description.String
		session.Type = kind.String
		session.Language = lang.String
		session.Room = room.String
		if tags != "" {
			if err := json.Unmarshal([]byte(tags), &session.Tags); err != nil {
				rows.Close()
				return nil, fmt.Errorf("decode tags of %s: %w", session.ID, err)
			}
		}
		if session.StartsAt, err = time.ParseInLocation(domain.LocalLayout, startsAt, loc); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse start of %s: %w", session.ID, err)
		}
		if session.EndsAt, err = time.ParseInLocation(domain.LocalLayout, endsAt, loc); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse end of %s: %w", session.ID, err)
		}
		out = append(out, session)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	speakers, err := s.speakersBySession(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Speakers = speakers[out[i].ID]
	}
	return out, nil
}

func (s *SQLiteStore) speakersBySession(ctx context.Context, conferenceID string) (map[string][]domain.Speaker, error) {
	query, args, err := storage.Builder.
		Select("ss.session_id", "sp.id", "sp.name", "sp.company", "sp.bio").
		From("session_speakers ss").
		Join("speakers sp ON sp.conference_id = ss.conference_id AND sp.id = ss.speaker_id").
		Where(sq.Eq{"ss.conference_id": conferenceID}).
		OrderBy("ss.session_id", "ss.position").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	defer rows.Close()

	out := map[string][]domain.Speaker{}
	for rows.Next() {
		var (
			sessionID    string
			sp           domain.Speaker
			company, bio sql.NullString
		)
		if err := rows.Scan(&sessionID, &sp.ID, &sp.Name, &company, &bio); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		sp.Company = company.String
		sp.Bio = bio.String
		out[sessionID] = append(out[sessionID], sp)
	}
	return out, rows.Err()
}

func conferenceSelect() sq.SelectBuilder {
	return storage.Builder.
		Select("id", "name", "time_zone", "days", "venue_name", "venue_address", "venue_description", "venue_latitude", "venue_longitude").
		From("conferences")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConference(row rowScanner) (domain.Conference, error) {
	var (
		c                domain.Conference
		days             string
		name, addr, desc sql.NullString
		lat, lng         sql.NullFloat64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.TimeZone, &days, &name, &addr, &desc, &lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Conference{}, err
		}
		return domain.Conference{}, fmt.Errorf("scan conference: %w", err)
	}
	loc, err := c.Location()
	if err != nil {
		return domain.Conference{}, err
	}
	for _, d := range strings.Split(days, ",") {
		if d == "" {
			continue
		}
		day, err := time.ParseInLocation(dayLayout, d, loc)
		if err != nil {
			return domain.Conference{}, fmt.Errorf("parse day of %s: %w", c.ID, err)
		}
		c.Days = append(c.Days, day)
	}
	c.Venue = domain.Venue{
		Name:        name.String,
		Address:     addr.String,
		Description: desc.String,
		Latitude:    lat.Float64,
		Longitude:   lng.Float64,
	}
	return c, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func exec(ctx context.Context, db execer, stmt sq.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, query, args...)
	return err
}
