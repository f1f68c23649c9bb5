package dto

// WatchInput selects whose view of which conference to follow. UserID is
// empty for anonymous bookmarks.
type WatchInput struct {
	ConferenceID string
	UserID       string
}

type BookmarkInput struct {
	ConferenceID string
	UserID       string
	SessionID    string
}

type ToggleOutput struct {
	SessionID  string
	Bookmarked bool
}
