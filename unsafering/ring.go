// unsafering implements a fixed capacity ring buffer with no concurrency or
// parallelism support. It is owned by a single goroutine, the same way a game
// session owns its preview queue.
package unsafering

import "iter"

type Buffer[T any] struct {
	data  []T
	size  int
	count int
	write int
}

func New[T any](size int) *Buffer[T] {
	if size < 1 {
		size = 1
	}
	return &Buffer[T]{data: make([]T, size), size: size}
}

// Push appends v, overwriting the oldest element once the buffer is full.
func (r *Buffer[T]) Push(v T) {
	r.data[r.write] = v
	r.write = (r.write + 1) % r.size
	r.count = min(r.count+1, r.size)
}

func (r *Buffer[T]) Len() int { return r.count }
func (r *Buffer[T]) Cap() int { return r.size }

// At returns the i'th element counting from the oldest.
func (r *Buffer[T]) At(i int) (val T, ok bool) {
	if i < 0 || i >= r.count {
		return val, false
	}
	start := (r.write - r.count + r.size) % r.size
	return r.data[(start+i)%r.size], true
}

// Cycle pops the oldest element and pushes v in its place. On an empty buffer
// v is pushed and the zero value returned with ok == false.
func (r *Buffer[T]) Cycle(v T) (oldest T, ok bool) {
	oldest, ok = r.At(0)
	if ok && r.count < r.size {
		// drop the head without overwriting so the length is unchanged
		start := (r.write - r.count + r.size) % r.size
		var zero T
		r.data[start] = zero
		r.count--
	}
	r.Push(v)
	return oldest, ok
}

// Reset empties the buffer, releasing references held by the slots.
func (r *Buffer[T]) Reset() {
	clear(r.data)
	r.count = 0
	r.write = 0
}

// All iterates the buffer from oldest to newest.
func (r *Buffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := (r.write - r.count + r.size) % r.size
		for i := range r.count {
			if !yield(r.data[(start+i)%r.size]) {
				return
			}
		}
	}
}
