package reorder

import (
	"context"
	"fmt"
)

// Reorderer starts gestures over the list held by one Persister.
type Reorderer[T Orderable[T]] struct {
	store Persister[T]
	limit int
}

// Option configures a Reorderer.
type Option func(*options)

type options struct {
	limit int
}

// WithConcurrencyLimit caps the number of writes in flight after a drop.
// Zero, the default, issues every write at once.
func WithConcurrencyLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// New returns a Reorderer for the list behind store.
func New[T Orderable[T]](store Persister[T], opts ...Option) *Reorderer[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Reorderer[T]{store: store, limit: o.limit}
}

// Begin loads the authoritative list and returns an idle gesture over it.
func (r *Reorderer[T]) Begin(ctx context.Context) (*Gesture[T], error) {
	items, err := r.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading list: %w", err)
	}
	return newGesture(r.store, r.limit, items), nil
}

// Over wraps an already loaded list, for callers that hold the displayed
// sequence themselves.
func (r *Reorderer[T]) Over(items []T) *Gesture[T] {
	return newGesture(r.store, r.limit, items)
}

// Move runs a whole gesture in one call: load, pick up source, drop on
// target. The returned gesture lets callers Resync after a *BatchError.
func (r *Reorderer[T]) Move(ctx context.Context, source, target int) (*Gesture[T], bool, error) {
	g, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := g.Start(source); err != nil {
		return nil, false, err
	}
	_, moved, err := g.Drop(ctx, target)
	return g, moved, err
}
