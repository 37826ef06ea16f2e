// Package queue provides the de-duplicating work queue used by worklist
// extractors.
package queue

// Unique is a FIFO queue that holds each item at most once. An item can be
// pushed again after it has been popped.
type Unique[T comparable] struct {
	items []T
	head  int
	set   map[T]struct{}
}

// New creates an empty queue.
func New[T comparable]() *Unique[T] {
	return &Unique[T]{set: make(map[T]struct{})}
}

// Push appends v unless it is already queued.
func (q *Unique[T]) Push(v T) {
	if _, ok := q.set[v]; ok {
		return
	}
	q.set[v] = struct{}{}
	q.items = append(q.items, v)
}

// Pop removes and returns the oldest item.
func (q *Unique[T]) Pop() (T, bool) {
	var zero T
	if q.head == len(q.items) {
		return zero, false
	}
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	delete(q.set, v)
	return v, true
}

// Len returns the number of queued items.
func (q *Unique[T]) Len() int { return len(q.items) - q.head }
