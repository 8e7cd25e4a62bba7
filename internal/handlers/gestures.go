package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/sabyy027/portfolio/internal/reorder"
)

// gestureIdleTimeout is how long an untouched gesture is kept before the
// next claim prunes it.
const gestureIdleTimeout = 30 * time.Minute

type gestureEntry[T reorder.Orderable[T]] struct {
	g       *reorder.Gesture[T]
	touched time.Time
}

// gestures holds the drag gesture of each admin session over one list.
// Gestures live in memory only; a restart behaves like a cancel. An entry
// lasts from drag start until the drop finishes, the drag is cancelled,
// the session logs out or it sits idle past gestureIdleTimeout.
type gestures[T reorder.Orderable[T]] struct {
	mu      sync.Mutex
	m       map[string]gestureEntry[T]
	maxIdle time.Duration
	now     func() time.Time
}

func newGestures[T reorder.Orderable[T]]() *gestures[T] {
	return &gestures[T]{
		m:       make(map[string]gestureEntry[T]),
		maxIdle: gestureIdleTimeout,
		now:     time.Now,
	}
}

func (g *gestures[T]) get(session string) (*reorder.Gesture[T], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.m[session]
	if !ok {
		return nil, false
	}
	e.touched = g.now()
	g.m[session] = e
	return e.g, true
}

// claim makes next the session's gesture unless the current one is still
// persisting a drop. Idle entries of other sessions are pruned.
func (g *gestures[T]) claim(session string, next *reorder.Gesture[T]) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cur, ok := g.m[session]; ok && cur.g.Phase() == reorder.Persisting {
		return fmt.Errorf("start while %s: %w", reorder.Persisting, reorder.ErrInvalidTransition)
	}
	now := g.now()
	for id, e := range g.m {
		if now.Sub(e.touched) > g.maxIdle && e.g.Phase() != reorder.Persisting {
			delete(g.m, id)
		}
	}
	g.m[session] = gestureEntry[T]{g: next, touched: now}
	return nil
}

// release drops the session's entry if it still holds gesture.
func (g *gestures[T]) release(session string, gesture *reorder.Gesture[T]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.m[session]; ok && e.g == gesture {
		delete(g.m, session)
	}
}

// forget drops whatever the session holds.
func (g *gestures[T]) forget(session string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.m, session)
}
