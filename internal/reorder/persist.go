package reorder

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Persister is the backing store of one ordered list.
type Persister[T any] interface {
	// Persist writes one item, keyed by its id.
	Persist(ctx context.Context, item T) error
	// FetchAll returns the authoritative list in display order.
	FetchAll(ctx context.Context) ([]T, error)
}

// ErrPersistenceBatch matches every *BatchError via errors.Is.
var ErrPersistenceBatch = errors.New("reorder: persistence batch failed")

// Failure is one item write that did not succeed.
type Failure struct {
	ID  string
	Err error
}

// BatchError reports a reorder whose writes did not all succeed. Writes that
// did succeed are not rolled back.
type BatchError struct {
	Failed    []Failure
	Succeeded []string
}

func (e *BatchError) Error() string {
	if len(e.Failed) == 0 {
		return ErrPersistenceBatch.Error()
	}
	first := e.Failed[0]
	return fmt.Sprintf("persisting order: %d of %d writes failed (first %s: %v)",
		len(e.Failed), len(e.Failed)+len(e.Succeeded), first.ID, first.Err)
}

func (e *BatchError) Is(target error) bool {
	return target == ErrPersistenceBatch
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f.Err
	}
	return errs
}

// FailedIDs returns the ids whose write failed, in list order.
func (e *BatchError) FailedIDs() []string {
	ids := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		ids[i] = f.ID
	}
	return ids
}

// PersistAll writes every item through p concurrently and waits for all of
// them. A failed write does not stop the others; failures are returned
// together as one *BatchError.
func PersistAll[T Orderable[T]](ctx context.Context, p Persister[T], items []T) error {
	return persistAll(ctx, p, items, 0)
}

func persistAll[T Orderable[T]](ctx context.Context, p Persister[T], items []T, limit int) error {
	errs := make([]error, len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			errs[i] = p.Persist(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	var batch BatchError
	for i, item := range items {
		if errs[i] != nil {
			batch.Failed = append(batch.Failed, Failure{ID: item.ItemID(), Err: errs[i]})
			continue
		}
		batch.Succeeded = append(batch.Succeeded, item.ItemID())
	}
	if len(batch.Failed) == 0 {
		return nil
	}
	return &batch
}
