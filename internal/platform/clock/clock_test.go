package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed time.Time

func (f fixed) Now() time.Time { return time.Time(f) }

func TestSystemClockUsesLocation(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("conf", 2*60*60)
	now := SystemClock{Location: loc}.Now()
	assert.Equal(t, loc, now.Location())
}

func TestTickerEmitsImmediatelyAndOnInterval(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 5, 16, 9, 0, 0, 0, time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Ticker{Clock: fixed(at), Interval: 10 * time.Millisecond}.Subscribe(ctx)
	for i := 0; i < 3; i++ {
		select {
		case got := <-ch:
			assert.True(t, got.Equal(at))
		case <-time.After(time.Second):
			t.Fatalf("tick %d did not arrive", i)
		}
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestManualAdvancePublishes(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 5, 16, 9, 30, 0, 0, time.UTC)
	m := NewManual(start)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := m.Subscribe(ctx)
	assert.True(t, (<-ch).Equal(start))

	m.Advance(time.Hour)
	assert.True(t, (<-ch).Equal(start.Add(time.Hour)))
	assert.True(t, m.Now().Equal(start.Add(time.Hour)))
}
