package clock

import (
	"context"
	"time"

	"confetti/internal/platform/stream"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time in Location. A nil Location means local.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	now := time.Now().Round(0)
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now
}

// Ticker publishes the current time on subscribe and then once per Interval.
type Ticker struct {
	Clock    Clock
	Interval time.Duration
}

var _ stream.Observable[time.Time] = Ticker{}

func (t Ticker) Get() time.Time {
	return t.Clock.Now()
}

func (t Ticker) Subscribe(ctx context.Context) <-chan time.Time {
	interval := t.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ch := make(chan time.Time, 1)
	ch <- t.Clock.Now()

	go func() {
		defer close(ch)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				select {
				case <-ch:
				default:
				}
				ch <- t.Clock.Now()
			}
		}
	}()
	return ch
}

// Manual is a settable clock whose subscribers are notified on every change.
type Manual struct {
	value *stream.Value[time.Time]
}

var (
	_ Clock                        = (*Manual)(nil)
	_ stream.Observable[time.Time] = (*Manual)(nil)
)

func NewManual(start time.Time) *Manual {
	return &Manual{value: stream.NewValue(start)}
}

func (m *Manual) Now() time.Time {
	return m.value.Get()
}

func (m *Manual) Get() time.Time {
	return m.value.Get()
}

func (m *Manual) Subscribe(ctx context.Context) <-chan time.Time {
	return m.value.Subscribe(ctx)
}

func (m *Manual) Set(t time.Time) {
	m.value.Set(t)
}

func (m *Manual) Advance(d time.Duration) {
	m.value.Update(func(t time.Time) time.Time { return t.Add(d) })
}
