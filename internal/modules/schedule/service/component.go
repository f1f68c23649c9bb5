package service

import (
	"context"
	"log/slog"

	"confetti/internal/modules/schedule/domain"
	"confetti/internal/platform/stream"
)

// Component backs the sessions tab: the schedule of one conference with the
// user's bookmarks marked, plus fire-and-forget bookmark toggling.
type Component struct {
	ctx          context.Context
	cancel       context.CancelFunc
	source       *Source
	state        *stream.Value[domain.State]
	conferenceID string
	userID       string
	onSelected   func(sessionID string)
	logger       *slog.Logger
}

func NewComponent(parent context.Context, source *Source, conferenceID, userID string, onSelected func(string), logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Component{
		ctx:          ctx,
		cancel:       cancel,
		source:       source,
		state:        source.Watch(ctx, conferenceID, userID),
		conferenceID: conferenceID,
		userID:       userID,
		onSelected:   onSelected,
		logger:       logger,
	}
}

func (c *Component) State() stream.Observable[domain.State] {
	return c.state
}

func (c *Component) ToggleBookmark(sessionID string) {
	if c.ctx.Err() != nil {
		return
	}
	go func() {
		if _, err := c.source.ToggleBookmark(c.ctx, c.conferenceID, c.userID, sessionID); err != nil && c.ctx.Err() == nil {
			c.logger.Warn("toggle bookmark failed", "session", sessionID, "error", err)
		}
	}()
}

func (c *Component) OnSessionClicked(sessionID string) {
	if c.onSelected != nil {
		c.onSelected(sessionID)
	}
}

func (c *Component) Close() {
	c.cancel()
	c.state.Close()
}
