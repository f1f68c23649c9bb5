package domain

import (
	"iter"
	"time"

	conferencedomain "confetti/internal/modules/conference/domain"
)

// UiState is what the bookmarks screen renders: exactly one of Loading,
// Error or Success.
type UiState interface {
	isUiState()
}

type Loading struct{}

type Error struct{}

type Success struct {
	Bookmarks        conferencedomain.BookmarkSet
	PastSessions     DateSessionsMap
	UpcomingSessions DateSessionsMap
}

func (Loading) isUiState() {}
func (Error) isUiState()   {}
func (Success) isUiState() {}

// DateSessionsMap maps a start time to the sessions starting then. Keys keep
// first-appearance order and sessions keep insertion order. Two start times
// share a key only if their wall-clock date-times are identical.
type DateSessionsMap struct {
	keys   []time.Time
	groups map[string][]conferencedomain.Session
}

func (m *DateSessionsMap) add(s conferencedomain.Session) {
	if m.groups == nil {
		m.groups = map[string][]conferencedomain.Session{}
	}
	key := conferencedomain.LocalKey(s.StartsAt)
	if _, ok := m.groups[key]; !ok {
		m.keys = append(m.keys, s.StartsAt)
	}
	m.groups[key] = append(m.groups[key], s)
}

// Keys returns the start times in order.
func (m DateSessionsMap) Keys() []time.Time {
	return append([]time.Time(nil), m.keys...)
}

// Get returns the sessions starting at t, or nil.
func (m DateSessionsMap) Get(t time.Time) []conferencedomain.Session {
	return m.groups[conferencedomain.LocalKey(t)]
}

func (m DateSessionsMap) All() iter.Seq2[time.Time, []conferencedomain.Session] {
	return func(yield func(time.Time, []conferencedomain.Session) bool) {
		for _, k := range m.keys {
			if !yield(k, m.groups[conferencedomain.LocalKey(k)]) {
				return
			}
		}
	}
}

// Len is the number of distinct start times.
func (m DateSessionsMap) Len() int { return len(m.keys) }

func (m DateSessionsMap) IsEmpty() bool { return len(m.keys) == 0 }

// Count is the total number of sessions across all start times.
func (m DateSessionsMap) Count() int {
	n := 0
	for _, list := range m.groups {
		n += len(list)
	}
	return n
}

// Sessions lists every session of m in key order.
func (m DateSessionsMap) Sessions() []conferencedomain.Session {
	var out []conferencedomain.Session
	for _, list := range m.All() {
		out = append(out, list...)
	}
	return out
}
