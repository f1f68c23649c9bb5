package domain

import "time"

// Slot holds the sessions that share a start time.
type Slot struct {
	StartsAt time.Time
	Sessions []Session
}

// Day is one conference day with its slots in start order.
type Day struct {
	Date  time.Time
	Slots []Slot
}

// LocalKey identifies a wall-clock date-time exactly, ignoring zone.
func LocalKey(t time.Time) string {
	return t.Format(LocalLayout + ".999999999")
}

// GroupByDay sorts a copy of sessions and groups it by calendar day and
// then by start time.
func GroupByDay(sessions []Session) []Day {
	sorted := append([]Session(nil), sessions...)
	SortSessions(sorted)

	var days []Day
	for _, s := range sorted {
		date := time.Date(s.StartsAt.Year(), s.StartsAt.Month(), s.StartsAt.Day(), 0, 0, 0, 0, s.StartsAt.Location())
		if n := len(days); n == 0 || LocalKey(days[n-1].Date) != LocalKey(date) {
			days = append(days, Day{Date: date})
		}
		day := &days[len(days)-1]
		if n := len(day.Slots); n == 0 || LocalKey(day.Slots[n-1].StartsAt) != LocalKey(s.StartsAt) {
			day.Slots = append(day.Slots, Slot{StartsAt: s.StartsAt})
		}
		slot := &day.Slots[len(day.Slots)-1]
		slot.Sessions = append(slot.Sessions, s)
	}
	return days
}

// Flatten lists every session of days in order.
func Flatten(days []Day) []Session {
	var out []Session
	for _, day := range days {
		for _, slot := range day.Slots {
			out = append(out, slot.Sessions...)
		}
	}
	return out
}
