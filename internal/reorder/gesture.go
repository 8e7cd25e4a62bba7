package reorder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Phase is the state of one reorder gesture.
type Phase int

const (
	Idle Phase = iota
	Dragging
	DragOver
	Dropped
	Reindexing
	Persisting
	Settled
	Failed
)

var phaseNames = [...]string{
	Idle:       "idle",
	Dragging:   "dragging",
	DragOver:   "drag_over",
	Dropped:    "dropped",
	Reindexing: "reindexing",
	Persisting: "persisting",
	Settled:    "settled",
	Failed:     "failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText lets phases appear by name in JSON responses.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ErrInvalidTransition is returned when a gesture event does not apply to
// the current phase.
var ErrInvalidTransition = errors.New("reorder: invalid gesture transition")

// Gesture tracks one drag-and-drop interaction over a list snapshot:
//
//	Idle -> Dragging -> DragOver* -> Dropped -> Reindexing -> Persisting -> Settled|Failed
//
// Dragging and DragOver may return to Idle through Cancel. Failed keeps the
// optimistically reordered list until Resync.
type Gesture[T Orderable[T]] struct {
	store Persister[T]
	limit int

	mu     sync.Mutex
	phase  Phase
	items  []T
	source int
	target int
	err    error
}

// Snapshot is a point-in-time view of a gesture.
type Snapshot[T any] struct {
	Phase  Phase `json:"phase"`
	Source int   `json:"source"`
	Target int   `json:"target"`
	Items  []T   `json:"items"`
}

func newGesture[T Orderable[T]](store Persister[T], limit int, items []T) *Gesture[T] {
	return &Gesture[T]{store: store, limit: limit, items: items, source: -1, target: -1}
}

// Phase returns the current phase.
func (g *Gesture[T]) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Items returns the list as it should be displayed. After a drop it holds
// the reindexed order even while writes are still in flight.
func (g *Gesture[T]) Items() []T {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.items)
}

// Err returns the error of the last failed drop, if any.
func (g *Gesture[T]) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Snapshot returns the phase, indices and displayed items together.
func (g *Gesture[T]) Snapshot() Snapshot[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot[T]{Phase: g.phase, Source: g.source, Target: g.target, Items: slices.Clone(g.items)}
}

// Start picks up the item at source. A settled gesture may start again; a
// failed one must be resynced first.
func (g *Gesture[T]) Start(source int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != Idle && g.phase != Settled {
		return fmt.Errorf("start while %s: %w", g.phase, ErrInvalidTransition)
	}
	g.phase = Dragging
	g.source = source
	g.target = -1
	g.err = nil
	return nil
}

// Over records the position currently hovered.
func (g *Gesture[T]) Over(target int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != Dragging && g.phase != DragOver {
		return fmt.Errorf("drag over while %s: %w", g.phase, ErrInvalidTransition)
	}
	g.phase = DragOver
	g.target = target
	return nil
}

// Cancel aborts the drag. Nothing is committed and no writes are issued.
func (g *Gesture[T]) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != Dragging && g.phase != DragOver {
		return fmt.Errorf("cancel while %s: %w", g.phase, ErrInvalidTransition)
	}
	g.reset()
	return nil
}

// Drop moves the dragged item to target and persists the new order of every
// item. It reports whether anything moved; a no-op drop returns the gesture
// to Idle without writes. On a partial write failure the returned error is
// a *BatchError and the gesture stays Failed with the reordered list.
func (g *Gesture[T]) Drop(ctx context.Context, target int) ([]T, bool, error) {
	g.mu.Lock()
	if g.phase != Dragging && g.phase != DragOver {
		phase := g.phase
		g.mu.Unlock()
		return nil, false, fmt.Errorf("drop while %s: %w", phase, ErrInvalidTransition)
	}
	g.phase = Dropped
	g.target = target

	g.phase = Reindexing
	moved, ok := Move(g.items, g.source, target)
	if !ok {
		items := slices.Clone(g.items)
		g.reset()
		g.mu.Unlock()
		return items, false, nil
	}
	g.items = moved
	g.phase = Persisting
	pending := slices.Clone(moved)
	g.mu.Unlock()

	err := persistAll(ctx, g.store, pending, g.limit)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.phase = Failed
		g.err = err
		return slices.Clone(g.items), true, err
	}
	g.phase = Settled
	return slices.Clone(g.items), true, nil
}

// Resync replaces the displayed list with the authoritative one and returns
// the gesture to Idle. Callers use it after a failed drop.
func (g *Gesture[T]) Resync(ctx context.Context) ([]T, error) {
	items, err := g.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("resync: %w", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == Persisting {
		return nil, fmt.Errorf("resync while %s: %w", g.phase, ErrInvalidTransition)
	}
	g.items = items
	g.err = nil
	g.reset()
	return slices.Clone(items), nil
}

func (g *Gesture[T]) reset() {
	g.phase = Idle
	g.source = -1
	g.target = -1
}
