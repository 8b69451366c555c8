// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package collections provides the small generic containers shared by the
// dependency graph, the selectors and the search framework.
package collections

import (
	"container/heap"
)

// Queue implements a generic FIFO queue with amortized O(1) Enqueue and
// Dequeue operations.  The zero value is ready to use.
type Queue[T any] struct {
	items []T
	head  int
}

// NewQueue creates a new empty queue with the given initial capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{items: make([]T, 0, capacity)}
}

// Enqueue adds an item to the back of the queue.
func (q *Queue[T]) Enqueue(item T) {
	// Reuse the consumed prefix once it makes up half the backing array.
	if q.head > 0 && q.head >= len(q.items)/2 {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	q.items = append(q.items, item)
}

// Dequeue removes and returns the item at the front of the queue.
// Returns false if the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	var zero T
	if q.head == len(q.items) {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	return item, true
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// IsEmpty returns true if the queue contains no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// PriorityQueue implements a generic priority queue using container/heap
// ordered by a comparison function.  The zero value is NOT ready to use;
// use NewPriorityQueue to create an instance.
type PriorityQueue[T any] struct {
	impl *heapImpl[T]
}

// NewPriorityQueue creates a new priority queue with the given comparison
// function where less(a, b) returns true if a must be popped before b.
func NewPriorityQueue[T any](less func(a, b T) bool, capacity int) *PriorityQueue[T] {
	return &PriorityQueue[T]{
		impl: &heapImpl[T]{
			items: make([]T, 0, capacity),
			less:  less,
		},
	}
}

// Push adds an item to the priority queue.
func (pq *PriorityQueue[T]) Push(item T) {
	heap.Push(pq.impl, item)
}

// Pop removes and returns the first item in priority order.
// Returns false if the queue is empty.
func (pq *PriorityQueue[T]) Pop() (T, bool) {
	if pq.impl.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(pq.impl).(T), true
}

// Len returns the number of items in the priority queue.
func (pq *PriorityQueue[T]) Len() int {
	return pq.impl.Len()
}

// IsEmpty returns true if the priority queue contains no items.
func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.impl.Len() == 0
}

// heapImpl implements heap.Interface to integrate with container/heap.
type heapImpl[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *heapImpl[T]) Len() int {
	return len(h.items)
}

func (h *heapImpl[T]) Less(i, j int) bool {
	return h.less(h.items[i], h.items[j])
}

func (h *heapImpl[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *heapImpl[T]) Push(x any) {
	h.items = append(h.items, x.(T))
}

func (h *heapImpl[T]) Pop() any {
	var zero T
	n := len(h.items) - 1
	item := h.items[n]
	h.items[n] = zero
	h.items = h.items[:n]
	return item
}

var _ heap.Interface = (*heapImpl[int])(nil)
