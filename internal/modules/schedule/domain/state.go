package domain

import (
	conferencedomain "confetti/internal/modules/conference/domain"
)

// State is the session source's view of one conference: Loading, Success
// or Error. Consumers switch on the concrete type and treat anything they do
// not recognise as a failure.
type State interface {
	isState()
}

type Loading struct{}

// Success carries the loaded sessions and the latest bookmark snapshot.
type Success struct {
	Conference          string
	SessionsByStartTime []conferencedomain.Day
	Bookmarks           conferencedomain.BookmarkSet
}

type Error struct {
	Err error
}

func (Loading) isState() {}
func (Success) isState() {}
func (Error) isState()   {}

func (e Error) Error() string {
	if e.Err == nil {
		return "session source failed"
	}
	return e.Err.Error()
}

func (e Error) Unwrap() error { return e.Err }

// Sessions flattens the loaded days in schedule order.
func (s Success) Sessions() []conferencedomain.Session {
	return conferencedomain.Flatten(s.SessionsByStartTime)
}
