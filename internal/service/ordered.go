// Package service holds the content services: CRUD over the store, a
// read-through list cache and the reorder flow of each ordered list.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sabyy027/portfolio/internal/cache"
	"github.com/sabyy027/portfolio/internal/reorder"
	"github.com/sabyy027/portfolio/internal/store"
)

// ErrNotFound and ErrInvalid alias the store sentinels so handlers depend
// on this package only.
var (
	ErrNotFound = store.ErrNotFound
	ErrInvalid  = store.ErrInvalid
)

// ListRepo is the store surface of one ordered list.
type ListRepo[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
	SetOrder(ctx context.Context, id string, order int) error
	NextOrder(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// Ordered is the service of one user-ordered content list. It is also the
// reorder.Persister of that list.
type Ordered[T reorder.Orderable[T]] struct {
	kind      string
	repo      ListRepo[T]
	cache     *cache.ListCache[T]
	sf        singleflight.Group
	gen       atomic.Uint64
	reorderer *reorder.Reorderer[T]
	logger    *zap.Logger
}

// NewOrdered creates the service for one list. If c is nil, caching is disabled.
func NewOrdered[T reorder.Orderable[T]](kind string, r ListRepo[T], c *cache.ListCache[T], logger *zap.Logger, opts ...reorder.Option) *Ordered[T] {
	s := &Ordered[T]{kind: kind, repo: r, cache: c, logger: logger.With(zap.String("list", kind))}
	s.reorderer = reorder.New[T](s, opts...)
	return s
}

// Kind names the list in logs and errors.
func (s *Ordered[T]) Kind() string { return s.kind }

// Reorderer starts drag gestures over this list.
func (s *Ordered[T]) Reorderer() *reorder.Reorderer[T] { return s.reorderer }

// List returns every item by order, served from the cache when possible.
// Concurrent misses share one store read. A read that overlaps a write is
// returned to its callers but not cached, and callers arriving after the
// write start a new read.
func (s *Ordered[T]) List(ctx context.Context) ([]T, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	gen := s.gen.Load()
	v, err, _ := s.sf.Do("list:"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		// the flight outlives any single caller
		ctx := context.WithoutCancel(ctx)
		if list, err := s.cache.Get(ctx); err == nil && list != nil {
			return list, nil
		} else if err != nil {
			s.logger.Warn("cache read failed", zap.Error(err))
		}
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if s.gen.Load() != gen {
			return list, nil
		}
		if err := s.cache.Set(ctx, list); err != nil {
			s.logger.Warn("cache write failed", zap.Error(err))
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}

func (s *Ordered[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores item at order, or at the append position when order is nil.
func (s *Ordered[T]) Create(ctx context.Context, item T, order *int) (T, error) {
	if order != nil {
		item = item.WithOrder(*order)
	} else {
		next, err := s.repo.NextOrder(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		item = item.WithOrder(next)
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		var zero T
		return zero, err
	}
	s.invalidate(ctx)
	return item, nil
}

// Update overwrites the stored item with the same id.
func (s *Ordered[T]) Update(ctx context.Context, item T) (T, error) {
	if err := s.repo.Update(ctx, &item); err != nil {
		var zero T
		return zero, err
	}
	s.invalidate(ctx)
	return item, nil
}

// Delete removes one item. The remaining orders keep their gap until the
// next reorder.
func (s *Ordered[T]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Persist writes the order of one item. It implements reorder.Persister.
func (s *Ordered[T]) Persist(ctx context.Context, item T) error {
	err := s.repo.SetOrder(ctx, item.ItemID(), item.ItemOrder())
	s.invalidate(ctx)
	return err
}

// Count returns how many items the list holds.
func (s *Ordered[T]) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// FetchAll reads the authoritative list, bypassing the cache. It
// implements reorder.Persister.
func (s *Ordered[T]) FetchAll(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

// Reorder moves the item at from to position to and persists every order.
// After a partial write failure the returned list is the authoritative one
// re-read from the store, together with the *reorder.BatchError.
func (s *Ordered[T]) Reorder(ctx context.Context, from, to int) ([]T, bool, error) {
	g, moved, err := s.reorderer.Move(ctx, from, to)
	if err == nil {
		return g.Items(), moved, nil
	}
	if g == nil || !errors.Is(err, reorder.ErrPersistenceBatch) {
		return nil, false, err
	}
	s.logger.Error("reorder partially persisted", zap.Error(err))
	items, rerr := g.Resync(ctx)
	if rerr != nil {
		return nil, moved, errors.Join(err, fmt.Errorf("%s: %w", s.kind, rerr))
	}
	return items, moved, err
}

func (s *Ordered[T]) invalidate(ctx context.Context) {
	s.gen.Add(1)
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
