package domain

import (
	"time"

	scheduledomain "confetti/internal/modules/schedule/domain"
)

// Aggregate derives the bookmarks UiState from the session source state and
// the current time. Bookmarked sessions ending at or after now are upcoming;
// the rest are past. Times compare as conference-local wall-clock values.
func Aggregate(state scheduledomain.State, now time.Time) UiState {
	switch st := state.(type) {
	case scheduledomain.Loading:
		return Loading{}
	case scheduledomain.Success:
		return partition(st, now)
	default:
		return Error{}
	}
}

func partition(st scheduledomain.Success, now time.Time) Success {
	out := Success{Bookmarks: st.Bookmarks}
	wallNow := wallClock(now)
	for _, day := range st.SessionsByStartTime {
		for _, slot := range day.Slots {
			for _, s := range slot.Sessions {
				if !st.Bookmarks.Has(s.ID) {
					continue
				}
				if wallClock(s.EndsAt).Before(wallNow) {
					out.PastSessions.add(s)
				} else {
					out.UpcomingSessions.add(s)
				}
			}
		}
	}
	return out
}

// wallClock drops the zone so that local date-times compare as written.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
