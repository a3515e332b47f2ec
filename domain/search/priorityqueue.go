package search

import (
	"container/heap"
	"errors"
)

// ErrDuplicateItem is returned by Queue.Push when the item is already live
// in the queue.
var ErrDuplicateItem = errors.New("item already in queue")

// Queue is an indexed min-heap with lazy deletion. Scores are computed once
// at insertion by the key function and never re-evaluated; Remove tombstones
// the entry and Pop skips tombstones, so both are amortized O(log n) while
// Contains stays O(1). Equal scores pop newest-first, which makes the
// regressive search complete the most recently introduced subgoal before
// returning to older ones.
type Queue[T comparable] struct {
	key     func(T) float64
	entries map[T]*entry[T]
	heap    entryHeap[T]
	seq     uint64
}

type entry[T comparable] struct {
	value   T
	score   float64
	seq     uint64
	removed bool
}

type entryHeap[T comparable] []*entry[T]

func (h entryHeap[T]) Len() int { return len(h) }
func (h entryHeap[T]) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].seq > h[j].seq
}
func (h entryHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap[T]) Push(x any)         { *h = append(*h, x.(*entry[T])) }
func (h *entryHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// NewQueue returns an empty queue scoring items with key.
func NewQueue[T comparable](key func(T) float64) *Queue[T] {
	return &Queue[T]{
		key:     key,
		entries: make(map[T]*entry[T]),
	}
}

// Len returns the number of live items.
func (q *Queue[T]) Len() int { return len(q.entries) }

// Contains reports whether item is live in the queue.
func (q *Queue[T]) Contains(item T) bool {
	_, ok := q.entries[item]
	return ok
}

// Push inserts item, scoring it once via the key function. It fails with
// ErrDuplicateItem when the item is already live.
func (q *Queue[T]) Push(item T) error {
	if _, ok := q.entries[item]; ok {
		return ErrDuplicateItem
	}
	q.seq++
	e := &entry[T]{value: item, score: q.key(item), seq: q.seq}
	q.entries[item] = e
	heap.Push(&q.heap, e)
	return nil
}

// Pop removes and returns the minimum-scored live item, skipping tombstoned
// entries. The second return is false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	for q.heap.Len() > 0 {
		e := heap.Pop(&q.heap).(*entry[T])
		if e.removed {
			continue
		}
		delete(q.entries, e.value)
		return e.value, true
	}
	var zero T
	return zero, false
}

// Remove tombstones item, reporting whether it was live.
func (q *Queue[T]) Remove(item T) bool {
	e, ok := q.entries[item]
	if !ok {
		return false
	}
	e.removed = true
	delete(q.entries, item)
	return true
}
