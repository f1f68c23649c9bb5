// Package stream holds observable values that push their latest state to
// subscribers over channels.
package stream

import (
	"context"
	"sync"
)

// Observable is a read-only view of a value that changes over time.
type Observable[T any] interface {
	// Get returns the latest value.
	Get() T
	// Subscribe delivers the latest value immediately and then every
	// subsequent one. Delivery is conflating: a slow reader skips
	// intermediate values but never sees an older value after a newer one.
	// The channel closes when ctx ends or the value is closed.
	Subscribe(ctx context.Context) <-chan T
}

// Value is a mutable Observable. The zero value is not usable; use NewValue.
type Value[T any] struct {
	mu     sync.Mutex
	cur    T
	subs   map[uint64]chan T
	nextID uint64
	closed bool
	done   chan struct{}
}

var _ Observable[int] = (*Value[int])(nil)

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: map[uint64]chan T{}, done: make(chan struct{})}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set stores x and publishes it. Set after Close is ignored.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.cur = x
	for _, ch := range v.subs {
		offer(ch, x)
	}
}

// Update applies fn to the current value and publishes the result atomically.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.cur = fn(v.cur)
	for _, ch := range v.subs {
		offer(ch, v.cur)
	}
}

func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch
	}
	id := v.nextID
	v.nextID++
	v.subs[id] = ch
	ch <- v.cur
	v.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			v.unsubscribe(id)
		case <-v.done:
		}
	}()
	return ch
}

// Close closes every subscription. The last value stays readable via Get.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	close(v.done)
	for id, ch := range v.subs {
		close(ch)
		delete(v.subs, id)
	}
}

// Closed reports whether Close has been called.
func (v *Value[T]) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *Value[T]) unsubscribe(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ch, ok := v.subs[id]; ok {
		close(ch)
		delete(v.subs, id)
	}
}

// offer replaces any pending value in ch with x. The caller holds the
// owning Value's lock, so it is the only sender and the send never blocks.
func offer[T any](ch chan T, x T) {
	select {
	case <-ch:
	default:
	}
	ch <- x
}
