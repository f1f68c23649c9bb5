package domain

type Tab int

const (
	TabSessions Tab = iota
	TabSpeakers
	TabBookmarks
	TabVenue
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabSessions, TabSpeakers, TabBookmarks, TabVenue}

func (t Tab) String() string {
	switch t {
	case TabSessions:
		return "Sessions"
	case TabSpeakers:
		return "Speakers"
	case TabBookmarks:
		return "Bookmarks"
	case TabVenue:
		return "Venue"
	default:
		return "Unknown"
	}
}

// Child is the component behind a tab. Home closes it when the tab is left.
type Child interface {
	Close()
}

// Entry is the active tab and its component.
type Entry struct {
	Tab   Tab
	Child Child
}
