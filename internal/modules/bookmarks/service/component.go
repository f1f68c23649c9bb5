package service

import (
	"context"
	"log/slog"
	"time"

	authdomain "confetti/internal/modules/auth/domain"
	"confetti/internal/modules/bookmarks/domain"
	bookmarksout "confetti/internal/modules/bookmarks/port/out"
	conferencedto "confetti/internal/modules/conference/dto"
	scheduledomain "confetti/internal/modules/schedule/domain"
	"confetti/internal/platform/stream"
)

// SessionSource starts the session stream a Component aggregates. ctx is the
// component's own: it ends when the component is closed.
type SessionSource func(ctx context.Context) stream.Observable[scheduledomain.State]

// Deps are the collaborators of a bookmarks Component. User is nil when
// nobody is signed in.
type Deps struct {
	Conference        string
	User              *authdomain.User
	Sessions          SessionSource
	Clock             stream.Observable[time.Time]
	Repository        bookmarksout.Repository
	OnSessionSelected func(sessionID string)
	OnSignIn          func()
	Logger            *slog.Logger
}

// Component derives the bookmarks UiState and forwards user actions.
// Bookmark requests run in the background for the component's lifetime and
// their failures are only logged: the next bookmark emission of the session
// source is the sole source of truth.
type Component struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	state  *stream.Value[domain.UiState]
}

func NewComponent(parent context.Context, deps Deps) *Component {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Component{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		state:  stream.Combine2(ctx, deps.Sessions(ctx), deps.Clock, domain.UiState(domain.Loading{}), domain.Aggregate),
	}
}

// UiState starts as Loading and is recomputed whenever the session source
// or the clock emits.
func (c *Component) UiState() stream.Observable[domain.UiState] {
	return c.state
}

func (c *Component) IsLoggedIn() bool {
	return c.deps.User != nil
}

func (c *Component) AddBookmark(sessionID string) {
	c.dispatch("add bookmark", sessionID, c.deps.Repository.AddBookmark)
}

func (c *Component) RemoveBookmark(sessionID string) {
	c.dispatch("remove bookmark", sessionID, c.deps.Repository.RemoveBookmark)
}

func (c *Component) OnSessionClicked(sessionID string) {
	if c.deps.OnSessionSelected != nil {
		c.deps.OnSessionSelected(sessionID)
	}
}

func (c *Component) OnSignInClicked() {
	if c.deps.OnSignIn != nil {
		c.deps.OnSignIn()
	}
}

// Close stops recomputation, abandons in-flight requests and closes the
// UiState stream. No value is published after Close returns.
func (c *Component) Close() {
	c.cancel()
	c.state.Close()
}

func (c *Component) dispatch(action, sessionID string, call func(context.Context, conferencedto.BookmarkInput) error) {
	if c.ctx.Err() != nil {
		return
	}
	input := conferencedto.BookmarkInput{
		ConferenceID: c.deps.Conference,
		User:         c.deps.User,
		SessionID:    sessionID,
	}
	go func() {
		if err := call(c.ctx, input); err != nil && c.ctx.Err() == nil {
			c.deps.Logger.Warn(action+" failed",
				"conference", c.deps.Conference,
				"session", sessionID,
				"error", err)
		}
	}()
}
