package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 5, day, hour, minute, 0, 0, time.UTC)
}

func TestScheduleValidate(t *testing.T) {
	t.Parallel()
	valid := Schedule{
		Conference: Conference{ID: "kc", Name: "KotlinConf", TimeZone: "Europe/Copenhagen"},
		Sessions: []Session{
			{ID: "s1", Title: "Keynote", StartsAt: at(22, 9, 0), EndsAt: at(22, 10, 0)},
		},
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(s *Schedule){
		"missing id":        func(s *Schedule) { s.Conference.ID = "" },
		"missing name":      func(s *Schedule) { s.Conference.Name = " " },
		"bad zone":          func(s *Schedule) { s.Conference.TimeZone = "Mars/Olympus" },
		"untitled session":  func(s *Schedule) { s.Sessions[0].Title = "" },
		"ends before start": func(s *Schedule) { s.Sessions[0].EndsAt = at(22, 8, 0) },
		"duplicate id": func(s *Schedule) {
			s.Sessions = append(s.Sessions, s.Sessions[0])
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid
			s.Sessions = append([]Session(nil), valid.Sessions...)
			mutate(&s)
			require.Error(t, s.Validate())
		})
	}
}

func TestBookmarkSetIsImmutable(t *testing.T) {
	t.Parallel()
	base := NewBookmarkSet("a")
	added := base.With("b")
	removed := added.Without("a")

	assert.Equal(t, []string{"a"}, base.IDs())
	assert.Equal(t, []string{"a", "b"}, added.IDs())
	assert.Equal(t, []string{"b"}, removed.IDs())
	assert.True(t, added.Has("b"))
	assert.False(t, base.Has("b"))
	assert.Equal(t, 0, BookmarkSet(nil).Len())
}

func TestGroupByDay(t *testing.T) {
	t.Parallel()
	sessions := []Session{
		{ID: "d2", Title: "Day two", Room: "A", StartsAt: at(23, 9, 0), EndsAt: at(23, 10, 0)},
		{ID: "b", Title: "B", Room: "B", StartsAt: at(22, 9, 0), EndsAt: at(22, 10, 0)},
		{ID: "a", Title: "A", Room: "A", StartsAt: at(22, 9, 0), EndsAt: at(22, 10, 0)},
		{ID: "c", Title: "C", Room: "A", StartsAt: at(22, 11, 0), EndsAt: at(22, 12, 0)},
	}
	days := GroupByDay(sessions)
	require.Len(t, days, 2)
	require.Len(t, days[0].Slots, 2)
	assert.Equal(t, []string{"a", "b"}, ids(days[0].Slots[0].Sessions))
	assert.Equal(t, []string{"c"}, ids(days[0].Slots[1].Sessions))
	assert.Equal(t, []string{"d2"}, ids(days[1].Slots[0].Sessions))
	assert.Equal(t, []string{"a", "b", "c", "d2"}, ids(Flatten(days)))
	assert.Equal(t, "d2", sessions[0].ID, "input must not be reordered")
}

func TestConferenceYear(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, Conference{}.Year())
	assert.Equal(t, 2024, Conference{Days: []time.Time{at(22, 0, 0)}}.Year())
}

func ids(sessions []Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}
