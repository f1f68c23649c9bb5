package stream

import "context"

// Combine2 derives a Value from a and b. fn runs on a single goroutine each
// time either input emits, once both have emitted at least once. Until then
// the derived value holds initial. The derived value is closed when ctx ends
// or when either input closes.
func Combine2[A, B, R any](ctx context.Context, a Observable[A], b Observable[B], initial R, fn func(A, B) R) *Value[R] {
	out := NewValue(initial)
	ctx, cancel := context.WithCancel(ctx)
	as := a.Subscribe(ctx)
	bs := b.Subscribe(ctx)

	go func() {
		defer out.Close()
		defer cancel()

		var (
			lastA        A
			lastB        B
			haveA, haveB bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case x, ok := <-as:
				if !ok {
					return
				}
				lastA, haveA = x, true
			case y, ok := <-bs:
				if !ok {
					return
				}
				lastB, haveB = y, true
			}
			if haveA && haveB && ctx.Err() == nil {
				out.Set(fn(lastA, lastB))
			}
		}
	}()
	return out
}

// Map derives a Value by applying fn to every emission of src.
func Map[A, R any](ctx context.Context, src Observable[A], fn func(A) R) *Value[R] {
	out := NewValue(fn(src.Get()))
	ctx, cancel := context.WithCancel(ctx)
	in := src.Subscribe(ctx)

	go func() {
		defer out.Close()
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case x, ok := <-in:
				if !ok {
					return
				}
				if ctx.Err() == nil {
					out.Set(fn(x))
				}
			}
		}
	}()
	return out
}
