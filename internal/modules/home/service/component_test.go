package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confetti/internal/modules/home/domain"
	"confetti/internal/modules/home/service"
	"confetti/internal/platform/logging"
)

type fakeChild struct {
	tab    domain.Tab
	ctx    context.Context
	mu     sync.Mutex
	closed bool
}

func (f *fakeChild) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeChild) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type recorder struct {
	mu      sync.Mutex
	created []*fakeChild
}

func (r *recorder) factory(ctx context.Context, tab domain.Tab) domain.Child {
	r.mu.Lock()
	defer r.mu.Unlock()
	child := &fakeChild{tab: tab, ctx: ctx}
	r.created = append(r.created, child)
	return child
}

func newHome(t *testing.T, switched func()) (*service.Component, *recorder) {
	t.Helper()
	rec := &recorder{}
	home := service.NewComponent(context.Background(), service.Deps{
		Conference:         "devfest",
		Factory:            rec.factory,
		OnSwitchConference: switched,
		Logger:             logging.Discard(),
	})
	t.Cleanup(home.Close)
	return home, rec
}

func TestHomeStartsOnSessions(t *testing.T) {
	t.Parallel()
	home, rec := newHome(t, nil)

	entry := home.Stack().Get()
	assert.Equal(t, domain.TabSessions, entry.Tab)
	require.Len(t, rec.created, 1)
	assert.Same(t, rec.created[0], entry.Child)
	assert.Equal(t, "devfest", home.Conference())
}

func TestSwitchingTabsClosesPreviousChild(t *testing.T) {
	t.Parallel()
	home, rec := newHome(t, nil)
	ch := home.Stack().Subscribe(context.Background())
	<-ch

	home.OnBookmarksTabClicked()
	select {
	case entry := <-ch:
		assert.Equal(t, domain.TabBookmarks, entry.Tab)
	case <-time.After(2 * time.Second):
		t.Fatal("stack did not change")
	}
	require.Len(t, rec.created, 2)
	assert.True(t, rec.created[0].isClosed())
	assert.False(t, rec.created[1].isClosed())

	home.OnSpeakersTabClicked()
	home.OnVenueTabClicked()
	home.OnTabClicked(domain.TabSessions)
	require.Len(t, rec.created, 5)
	assert.Equal(t, []domain.Tab{domain.TabSessions, domain.TabBookmarks, domain.TabSpeakers, domain.TabVenue, domain.TabSessions},
		[]domain.Tab{rec.created[0].tab, rec.created[1].tab, rec.created[2].tab, rec.created[3].tab, rec.created[4].tab})
	for _, c := range rec.created[:4] {
		assert.True(t, c.isClosed())
	}
}

func TestChildContextEndsWithChild(t *testing.T) {
	t.Parallel()
	home, rec := newHome(t, nil)

	home.OnVenueTabClicked()
	require.Len(t, rec.created, 2)
	assert.ErrorIs(t, rec.created[0].ctx.Err(), context.Canceled)
	assert.NoError(t, rec.created[1].ctx.Err())

	home.Close()
	assert.ErrorIs(t, rec.created[1].ctx.Err(), context.Canceled)
}

func TestClickingActiveTabIsNoop(t *testing.T) {
	t.Parallel()
	home, rec := newHome(t, nil)

	home.OnSessionsTabClicked()
	home.OnSessionsTabClicked()
	require.Len(t, rec.created, 1)
	assert.False(t, rec.created[0].isClosed())
}

func TestCloseClosesActiveChildAndStack(t *testing.T) {
	t.Parallel()
	home, rec := newHome(t, nil)
	ch := home.Stack().Subscribe(context.Background())
	<-ch

	home.Close()
	assert.True(t, rec.created[0].isClosed())
	_, ok := <-ch
	assert.False(t, ok)

	home.OnVenueTabClicked()
	assert.Len(t, rec.created, 1)
}

func TestSwitchConferenceCallback(t *testing.T) {
	t.Parallel()
	calls := 0
	home, _ := newHome(t, func() { calls++ })
	home.OnSwitchConferenceClicked()
	assert.Equal(t, 1, calls)
}

func TestPageLoadsInBackground(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	page := service.NewPage(context.Background(), func(context.Context) ([]string, error) {
		<-release
		return []string{"Ada", "Bo"}, nil
	})
	defer page.Close()

	ch := page.State().Subscribe(context.Background())
	assert.True(t, (<-ch).Loading)
	close(release)
	select {
	case st := <-ch:
		assert.False(t, st.Loading)
		assert.Equal(t, []string{"Ada", "Bo"}, st.Value)
		assert.NoError(t, st.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("page did not load")
	}
}

func TestPageReportsLoadError(t *testing.T) {
	t.Parallel()
	page := service.NewPage(context.Background(), func(context.Context) (int, error) {
		return 0, errors.New("offline")
	})
	defer page.Close()

	require.Eventually(t, func() bool { return page.State().Get().Err != nil }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, page.State().Get().Loading)
}

func TestTabNames(t *testing.T) {
	t.Parallel()
	var names []string
	for _, tab := range domain.Tabs {
		names = append(names, tab.String())
	}
	assert.Equal(t, []string{"Sessions", "Speakers", "Bookmarks", "Venue"}, names)
}
