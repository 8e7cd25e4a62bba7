// Package reorder moves one item of a user-ordered list to a new position,
// reindexes the list densely from zero and persists every item's new order.
package reorder

import "slices"

// Orderable is an item taking part in a user-controlled display sequence.
// WithOrder returns a copy of the item carrying the given order.
type Orderable[T any] interface {
	ItemID() string
	ItemOrder() int
	WithOrder(order int) T
}

// Move splices the item at source out of items and back in at target, where
// target indexes the list with the source already removed, then reindexes
// every item. It reports false and returns items untouched when the move is
// a no-op: equal indices or either index outside [0, len(items)-1].
// The input slice is never modified.
func Move[T Orderable[T]](items []T, source, target int) ([]T, bool) {
	n := len(items)
	if source == target || !inBounds(source, n) || !inBounds(target, n) {
		return items, false
	}

	out := make([]T, 0, n)
	out = append(out, items[:source]...)
	out = append(out, items[source+1:]...)
	out = slices.Insert(out, target, items[source])
	return Reindex(out), true
}

// Reindex assigns order = position to every item, starting at zero.
func Reindex[T Orderable[T]](items []T) []T {
	for i := range items {
		items[i] = items[i].WithOrder(i)
	}
	return items
}

// IsDense reports whether the orders of items are exactly 0..len(items)-1
// in sequence.
func IsDense[T Orderable[T]](items []T) bool {
	for i, item := range items {
		if item.ItemOrder() != i {
			return false
		}
	}
	return true
}

func inBounds(i, n int) bool {
	return i >= 0 && i < n
}
