package buffer

import "fmt"

// Ring is a bounded FIFO buffer. Pushing beyond the capacity evicts the
// oldest element. The zero value is not usable; construct with NewRing.
type Ring[T any] struct {
	data  []T
	start int
	count int
}

// NewRing returns a ring holding at most capacity elements.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}
	return &Ring[T]{data: make([]T, capacity)}, nil
}

// Cap returns the maximum number of elements the ring can hold.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Len returns the current number of elements.
func (r *Ring[T]) Len() int {
	return r.count
}

// Push appends v, evicting the oldest element if the ring is full.
func (r *Ring[T]) Push(v T) {
	if r.count < len(r.data) {
		r.data[(r.start+r.count)%len(r.data)] = v
		r.count++
		return
	}

	r.data[r.start] = v
	r.start = (r.start + 1) % len(r.data)
}

// At returns the element at index i, where 0 is the oldest element.
// Out-of-range indices return the zero value.
func (r *Ring[T]) At(i int) T {
	var zero T
	if i < 0 || i >= r.count {
		return zero
	}
	return r.data[(r.start+i)%len(r.data)]
}

// Snapshot returns the contents oldest-first as a new slice.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(r.start+i)%len(r.data)]
	}
	return out
}

// Reset discards all elements. Capacity is retained.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.start = 0
	r.count = 0
}
