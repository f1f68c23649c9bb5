package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "confetti/internal/modules/auth/domain"
	"confetti/internal/modules/bookmarks/domain"
	"confetti/internal/modules/bookmarks/service"
	conferencedomain "confetti/internal/modules/conference/domain"
	conferencedto "confetti/internal/modules/conference/dto"
	scheduledomain "confetti/internal/modules/schedule/domain"
	"confetti/internal/platform/clock"
	"confetti/internal/platform/logging"
	"confetti/internal/platform/stream"
)

const waitFor = 2 * time.Second

func at(hour, minute int) time.Time {
	return time.Date(2024, 10, 17, hour, minute, 0, 0, time.UTC)
}

var (
	s1 = conferencedomain.Session{ID: "S1", Title: "Morning", StartsAt: at(9, 0), EndsAt: at(10, 0)}
	s2 = conferencedomain.Session{ID: "S2", Title: "Afternoon", StartsAt: at(14, 0), EndsAt: at(15, 0)}
)

func loaded(bookmarked ...string) scheduledomain.State {
	return scheduledomain.Success{
		Conference:          "devfest",
		SessionsByStartTime: conferencedomain.GroupByDay([]conferencedomain.Session{s1, s2}),
		Bookmarks:           conferencedomain.NewBookmarkSet(bookmarked...),
	}
}

type request struct {
	op    string
	input conferencedto.BookmarkInput
}

type fakeRepo struct {
	err      error
	block    bool
	requests chan request
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: make(chan request, 16)}
}

func (f *fakeRepo) AddBookmark(ctx context.Context, in conferencedto.BookmarkInput) error {
	return f.handle(ctx, "add", in)
}

func (f *fakeRepo) RemoveBookmark(ctx context.Context, in conferencedto.BookmarkInput) error {
	return f.handle(ctx, "remove", in)
}

func (f *fakeRepo) handle(ctx context.Context, op string, in conferencedto.BookmarkInput) error {
	f.requests <- request{op: op, input: in}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	sessions  *stream.Value[scheduledomain.State]
	sourceCtx context.Context
	clock     *clock.Manual
	repo      *fakeRepo
	comp      *service.Component
	states    <-chan domain.UiState
}

func newHarness(t *testing.T, deps service.Deps) *harness {
	t.Helper()
	return newHarnessAt(t, at(11, 0), deps)
}

func newHarnessAt(t *testing.T, now time.Time, deps service.Deps) *harness {
	t.Helper()
	h := &harness{
		sessions: stream.NewValue[scheduledomain.State](scheduledomain.Loading{}),
		clock:    clock.NewManual(now),
		repo:     newFakeRepo(),
	}
	deps.Conference = "devfest"
	deps.Sessions = func(ctx context.Context) stream.Observable[scheduledomain.State] {
		h.sourceCtx = ctx
		return h.sessions
	}
	deps.Clock = h.clock
	deps.Repository = h.repo
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	h.comp = service.NewComponent(context.Background(), deps)
	t.Cleanup(h.comp.Close)
	h.states = h.comp.UiState().Subscribe(context.Background())
	return h
}

// until reads states until one satisfies match.
func (h *harness) until(t *testing.T, match func(domain.UiState) bool) domain.UiState {
	t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case st, ok := <-h.states:
			require.True(t, ok, "ui state stream closed")
			if match(st) {
				return st
			}
		case <-deadline:
			t.Fatal("timed out waiting for ui state")
			return nil
		}
	}
}

func (h *harness) nextRequest(t *testing.T) request {
	t.Helper()
	select {
	case r := <-h.repo.requests:
		return r
	case <-time.After(waitFor):
		t.Fatal("no repository request")
		return request{}
	}
}

func isSuccess(st domain.UiState) bool {
	_, ok := st.(domain.Success)
	return ok
}

func sessionIDs(m domain.DateSessionsMap) []string {
	var out []string
	for _, s := range m.Sessions() {
		out = append(out, s.ID)
	}
	return out
}

func TestUiStateStartsLoadingAndStaysLoadingWhileSourceLoads(t *testing.T) {
	t.Parallel()
	h := newHarness(t, service.Deps{})

	assert.Equal(t, domain.UiState(domain.Loading{}), h.comp.UiState().Get())
	h.clock.Advance(time.Hour)
	st := h.until(t, func(domain.UiState) bool { return true })
	assert.Equal(t, domain.UiState(domain.Loading{}), st)
}

func TestUiStateSplitsBookmarksAroundNow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, service.Deps{})
	h.sessions.Set(loaded("S1", "S2"))

	got := h.until(t, isSuccess).(domain.Success)
	assert.Equal(t, []string{"S1"}, sessionIDs(got.PastSessions))
	assert.Equal(t, []time.Time{at(9, 0)}, got.PastSessions.Keys())
	assert.Equal(t, []string{"S2"}, sessionIDs(got.UpcomingSessions))
	assert.Equal(t, []time.Time{at(14, 0)}, got.UpcomingSessions.Keys())
}

func TestUiStateWithNoBookmarksIsEmptySuccess(t *testing.T) {
	t.Parallel()
	h := newHarness(t, service.Deps{})
	h.sessions.Set(loaded())

	got := h.until(t, isSuccess).(domain.Success)
	assert.True(t, got.PastSessions.IsEmpty())
	assert.True(t, got.UpcomingSessions.IsEmpty())
}

func TestClockTickMovesSessionToPast(t *testing.T) {
	t.Parallel()
	h := newHarnessAt(t, at(9, 30), service.Deps{})
	h.sessions.Set(loaded("S1"))

	before := h.until(t, func(st domain.UiState) bool {
		s, ok := st.(domain.Success)
		return ok && s.UpcomingSessions.Count() == 1
	}).(domain.Success)
	assert.True(t, before.PastSessions.IsEmpty())

	h.clock.Set(at(10, 30))
	after := h.until(t, func(st domain.UiState) bool {
		s, ok := st.(domain.Success)
		return ok && s.PastSessions.Count() == 1
	}).(domain.Success)
	assert.True(t, after.UpcomingSessions.IsEmpty())
	assert.Equal(t, []string{"S1"}, sessionIDs(after.PastSessions))
}

func TestSourceFailureBecomesError(t *testing.T) {
	t.Parallel()
	h := newHarness(t, service.Deps{})
	h.sessions.Set(loaded("S1"))
	h.until(t, isSuccess)

	h.sessions.Set(scheduledomain.Error{Err: errors.New("offline")})
	st := h.until(t, func(st domain.UiState) bool { return !isSuccess(st) })
	assert.Equal(t, domain.UiState(domain.Error{}), st)
}

func TestUiStateNeverGoesBackwards(t *testing.T) {
	t.Parallel()
	h := newHarnessAt(t, at(8, 0), service.Deps{})
	h.sessions.Set(loaded("S1", "S2"))

	// now only moves forward, so no observed state may report more upcoming
	// sessions than the one before it.
	go func() {
		for m := 7; m < 8*60; m += 7 {
			h.clock.Set(at(8, 0).Add(time.Duration(m) * time.Minute))
		}
	}()
	last := 2
	for last > 0 {
		st := h.until(t, isSuccess).(domain.Success)
		up := st.UpcomingSessions.Count()
		require.LessOrEqual(t, up, last)
		last = up
	}
}

func TestAddAndRemoveForwardToRepository(t *testing.T) {
	t.Parallel()
	user := &authdomain.User{UID: "u-1", DisplayName: "Ada"}
	h := newHarness(t, service.Deps{User: user})

	h.comp.AddBookmark("S1")
	r := h.nextRequest(t)
	assert.Equal(t, "add", r.op)
	assert.Equal(t, conferencedto.BookmarkInput{ConferenceID: "devfest", User: user, SessionID: "S1"}, r.input)
	assert.Equal(t, "u-1", r.input.EffectiveUserID())

	h.comp.RemoveBookmark("S2")
	r = h.nextRequest(t)
	assert.Equal(t, "remove", r.op)
	assert.Equal(t, "S2", r.input.SessionID)
}

func TestAnonymousBookmarksUseEmptyUser(t *testing.T) {
	t.Parallel()
	h := newHarness(t, service.Deps{})
	assert.False(t, h.comp.IsLoggedIn())

	h.comp.AddBookmark("S1")
	r := h.nextRequest(t)
	assert.Nil(t, r.input.User)
	assert.Empty(t, r.input.EffectiveUserID())
}

// Bookmark failures are logged and never reach the UiState: the screen
// keeps showing whatever the session source last published.
func TestBookmarkFailureIsLoggedNotSurfaced(t *testing.T) {
	t.Parallel()
	logs := &syncBuffer{}
	logger, err := logging.New(logs, "warn")
	require.NoError(t, err)
	h := newHarness(t, service.Deps{Logger: logger})
	h.repo.err = errors.New("quota exceeded")
	h.sessions.Set(loaded("S1"))
	h.until(t, isSuccess)

	h.comp.AddBookmark("S2")
	h.nextRequest(t)
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "quota exceeded")
	}, waitFor, 10*time.Millisecond)
	assert.Contains(t, logs.String(), "level=WARN")

	got, ok := h.comp.UiState().Get().(domain.Success)
	require.True(t, ok)
	assert.False(t, got.Bookmarks.Has("S2"))
}

func TestNavigationCallbacks(t *testing.T) {
	t.Parallel()
	var selected []string
	signIns := 0
	h := newHarness(t, service.Deps{
		OnSessionSelected: func(id string) { selected = append(selected, id) },
		OnSignIn:          func() { signIns++ },
	})

	h.comp.OnSessionClicked("S2")
	h.comp.OnSignInClicked()
	h.comp.OnSignInClicked()
	assert.Equal(t, []string{"S2"}, selected)
	assert.Equal(t, 2, signIns)
}

func TestCloseStopsEmissionsAndAbandonsRequests(t *testing.T) {
	t.Parallel()
	h := newHarness(t, service.Deps{})
	h.repo.block = true
	h.sessions.Set(loaded("S1"))
	h.until(t, isSuccess)

	h.comp.AddBookmark("S1")
	h.nextRequest(t)
	h.comp.Close()

	for range h.states {
	}
	h.clock.Advance(time.Hour)
	h.sessions.Set(loaded())
	h.comp.AddBookmark("S2")

	select {
	case r := <-h.repo.requests:
		t.Fatalf("request dispatched after close: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
	_, ok := <-h.comp.UiState().Subscribe(context.Background())
	assert.False(t, ok)
}

func TestCloseEndsSessionSource(t *testing.T) {
	t.Parallel()
	h := newHarness(t, service.Deps{})
	require.NotNil(t, h.sourceCtx)
	require.NoError(t, h.sourceCtx.Err())

	h.comp.Close()
	select {
	case <-h.sourceCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("session source outlived the component")
	}
}
