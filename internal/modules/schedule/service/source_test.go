package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conferencedomain "confetti/internal/modules/conference/domain"
	conferencedto "confetti/internal/modules/conference/dto"
	"confetti/internal/modules/schedule/domain"
	"confetti/internal/modules/schedule/service"
	apperrors "confetti/internal/platform/errors"
	"confetti/internal/platform/logging"
	"confetti/internal/platform/stream"
)

type fakeRepo struct {
	mu        sync.Mutex
	days      []conferencedomain.Day
	loadErr   error
	bookmarks *stream.Value[conferencedomain.BookmarkSet]
	calls     []string
}

func newFakeRepo(days []conferencedomain.Day, ids ...string) *fakeRepo {
	return &fakeRepo{days: days, bookmarks: stream.NewValue(conferencedomain.NewBookmarkSet(ids...))}
}

func (f *fakeRepo) SessionsByStartTime(context.Context, string) ([]conferencedomain.Day, error) {
	return f.days, f.loadErr
}

func (f *fakeRepo) Bookmarks(context.Context, string, string) (conferencedomain.BookmarkSet, error) {
	return f.bookmarks.Get(), nil
}

func (f *fakeRepo) WatchBookmarks(context.Context, string, string) (stream.Observable[conferencedomain.BookmarkSet], error) {
	return f.bookmarks, nil
}

func (f *fakeRepo) AddBookmark(_ context.Context, in conferencedto.BookmarkInput) error {
	f.record("add:" + in.SessionID)
	f.bookmarks.Update(func(s conferencedomain.BookmarkSet) conferencedomain.BookmarkSet { return s.With(in.SessionID) })
	return nil
}

func (f *fakeRepo) RemoveBookmark(_ context.Context, in conferencedto.BookmarkInput) error {
	f.record("remove:" + in.SessionID)
	f.bookmarks.Update(func(s conferencedomain.BookmarkSet) conferencedomain.BookmarkSet { return s.Without(in.SessionID) })
	return nil
}

func (f *fakeRepo) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRepo) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func sampleDays() []conferencedomain.Day {
	start := time.Date(2024, 10, 17, 9, 0, 0, 0, time.UTC)
	return conferencedomain.GroupByDay([]conferencedomain.Session{
		{ID: "s1", Title: "One", StartsAt: start, EndsAt: start.Add(time.Hour)},
		{ID: "s2", Title: "Two", StartsAt: start.Add(5 * time.Hour), EndsAt: start.Add(6 * time.Hour)},
	})
}

func await(t *testing.T, ch <-chan domain.State, match func(domain.State) bool) domain.State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st, ok := <-ch:
			require.True(t, ok, "state stream closed")
			if match(st) {
				return st
			}
		case <-deadline:
			t.Fatal("timed out waiting for state")
			return nil
		}
	}
}

func isSuccess(st domain.State) bool {
	_, ok := st.(domain.Success)
	return ok
}

func TestWatchPublishesSuccessForEveryBookmarkEmission(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := newFakeRepo(sampleDays(), "s1")
	src := service.NewSource(repo, logging.Discard())

	ch := src.Watch(ctx, "devfest", "").Subscribe(ctx)
	first := await(t, ch, isSuccess).(domain.Success)
	assert.Equal(t, "devfest", first.Conference)
	assert.Equal(t, []string{"s1"}, first.Bookmarks.IDs())
	assert.Len(t, first.Sessions(), 2)

	require.NoError(t, src.AddBookmark(ctx, "devfest", "", "s2"))
	next := await(t, ch, func(st domain.State) bool {
		s, ok := st.(domain.Success)
		return ok && s.Bookmarks.Has("s2")
	}).(domain.Success)
	assert.Equal(t, []string{"s1", "s2"}, next.Bookmarks.IDs())
}

func TestWatchPublishesErrorWhenLoadingFails(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := newFakeRepo(nil)
	repo.loadErr = errors.New("offline")
	src := service.NewSource(repo, logging.Discard())

	st := await(t, src.Watch(ctx, "devfest", "").Subscribe(ctx), func(st domain.State) bool {
		_, ok := st.(domain.Error)
		return ok
	})
	assert.ErrorContains(t, st.(domain.Error), "offline")

	st = await(t, src.Watch(ctx, "", "").Subscribe(ctx), func(st domain.State) bool {
		_, ok := st.(domain.Error)
		return ok
	})
	assert.ErrorIs(t, st.(domain.Error), apperrors.ErrConferenceRequired)
}

func TestWatchClosesWithContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	src := service.NewSource(newFakeRepo(sampleDays()), logging.Discard())
	value := src.Watch(ctx, "devfest", "")
	cancel()

	require.Eventually(t, value.Closed, 2*time.Second, 10*time.Millisecond)
}

func TestToggleBookmarkFlipsMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeRepo(sampleDays(), "s1")
	src := service.NewSource(repo, logging.Discard())

	on, err := src.ToggleBookmark(ctx, "devfest", "", "s1")
	require.NoError(t, err)
	assert.False(t, on)
	on, err = src.ToggleBookmark(ctx, "devfest", "", "s1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"remove:s1", "add:s1"}, repo.recorded())
}

func TestComponentTogglesInBackgroundAndStopsOnClose(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo(sampleDays())
	var selected []string
	c := service.NewComponent(context.Background(), service.NewSource(repo, logging.Discard()), "devfest", "", func(id string) {
		selected = append(selected, id)
	}, logging.Discard())

	ch := c.State().Subscribe(context.Background())
	await(t, ch, isSuccess)

	c.ToggleBookmark("s2")
	await(t, ch, func(st domain.State) bool {
		s, ok := st.(domain.Success)
		return ok && s.Bookmarks.Has("s2")
	})

	c.OnSessionClicked("s2")
	assert.Equal(t, []string{"s2"}, selected)

	c.Close()
	c.ToggleBookmark("s1")
	assert.Equal(t, []string{"add:s2"}, repo.recorded())
	value, ok := c.State().(*stream.Value[domain.State])
	require.True(t, ok)
	assert.True(t, value.Closed())
}
