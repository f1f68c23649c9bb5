package service

import (
	"context"
	"log/slog"
	"sync"

	"confetti/internal/modules/home/domain"
	"confetti/internal/platform/stream"
)

// Factory builds the child component for a tab. ctx is scoped to the child:
// it is cancelled when Home closes the child, so anything the factory starts
// with it stops together with the child.
type Factory func(ctx context.Context, tab domain.Tab) domain.Child

type Deps struct {
	Conference         string
	Factory            Factory
	OnSwitchConference func()
	Logger             *slog.Logger
}

// Component is the home screen: a tab bar with exactly one live child.
type Component struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	active      domain.Entry
	cancelChild context.CancelFunc
	stack       *stream.Value[domain.Entry]
}

// NewComponent opens the sessions tab.
func NewComponent(parent context.Context, deps Deps) *Component {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	c := &Component{deps: deps, ctx: ctx, cancel: cancel}
	c.build(domain.TabSessions)
	c.stack = stream.NewValue(c.active)
	return c
}

// Stack publishes the active tab whenever it changes.
func (c *Component) Stack() stream.Observable[domain.Entry] {
	return c.stack
}

func (c *Component) Conference() string {
	return c.deps.Conference
}

func (c *Component) OnSessionsTabClicked()  { c.open(domain.TabSessions) }
func (c *Component) OnSpeakersTabClicked()  { c.open(domain.TabSpeakers) }
func (c *Component) OnBookmarksTabClicked() { c.open(domain.TabBookmarks) }
func (c *Component) OnVenueTabClicked()     { c.open(domain.TabVenue) }

// OnTabClicked opens tab by value, for tab bars that iterate domain.Tabs.
func (c *Component) OnTabClicked(tab domain.Tab) { c.open(tab) }

func (c *Component) OnSwitchConferenceClicked() {
	if c.deps.OnSwitchConference != nil {
		c.deps.OnSwitchConference()
	}
}

// Close closes the active child and the stack.
func (c *Component) Close() {
	c.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeChild()
	c.stack.Close()
}

func (c *Component) open(tab domain.Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Err() != nil || c.active.Tab == tab {
		return
	}
	c.closeChild()
	c.build(tab)
	c.deps.Logger.Debug("tab opened", "conference", c.deps.Conference, "tab", tab.String())
	c.stack.Set(c.active)
}

func (c *Component) build(tab domain.Tab) {
	ctx, cancel := context.WithCancel(c.ctx)
	c.active = domain.Entry{Tab: tab, Child: c.deps.Factory(ctx, tab)}
	c.cancelChild = cancel
}

func (c *Component) closeChild() {
	if c.active.Child != nil {
		c.active.Child.Close()
		c.active.Child = nil
	}
	if c.cancelChild != nil {
		c.cancelChild()
		c.cancelChild = nil
	}
}
