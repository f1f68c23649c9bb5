package service

import (
	"context"

	"confetti/internal/platform/stream"
)

// PageState is the load state of a Page.
type PageState[T any] struct {
	Loading bool
	Value   T
	Err     error
}

// Page is a child that loads one value in the background, for tabs that
// only display data.
type Page[T any] struct {
	cancel context.CancelFunc
	state  *stream.Value[PageState[T]]
}

func NewPage[T any](parent context.Context, load func(context.Context) (T, error)) *Page[T] {
	ctx, cancel := context.WithCancel(parent)
	p := &Page[T]{cancel: cancel, state: stream.NewValue(PageState[T]{Loading: true})}
	go func() {
		value, err := load(ctx)
		if ctx.Err() != nil {
			return
		}
		p.state.Set(PageState[T]{Value: value, Err: err})
	}()
	return p
}

func (p *Page[T]) State() stream.Observable[PageState[T]] {
	return p.state
}

func (p *Page[T]) Close() {
	p.cancel()
	p.state.Close()
}
