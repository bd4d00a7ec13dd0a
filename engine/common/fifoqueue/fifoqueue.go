package fifoqueue

import (
	"fmt"
	mathbits "math/bits"
	"sync"

	"github.com/ef-ds/deque"
)

// FifoQueue is a concurrency safe FIFO queue of elements of type T with an
// optional capacity. Pushes beyond capacity are dropped and reported to the
// caller. An optional length observer is called with the new length after
// every successful push or pop; it must not block.
type FifoQueue[T any] struct {
	mu          sync.RWMutex
	queue       deque.Deque
	capacity    int
	observeSize func(int)
}

// Option configures a FifoQueue at construction time.
type Option[T any] func(*FifoQueue[T]) error

// WithCapacity bounds the number of elements the queue holds.
func WithCapacity[T any](capacity int) Option[T] {
	return func(q *FifoQueue[T]) error {
		if capacity < 1 {
			return fmt.Errorf("queue capacity must be positive, got %d", capacity)
		}
		q.capacity = capacity
		return nil
	}
}

// WithLengthObserver registers a callback invoked with the queue length after
// each change.
func WithLengthObserver[T any](observer func(int)) Option[T] {
	return func(q *FifoQueue[T]) error {
		if observer == nil {
			return fmt.Errorf("length observer must not be nil")
		}
		q.observeSize = observer
		return nil
	}
}

// NewFifoQueue returns an empty queue. Without WithCapacity the queue is
// bounded only by the largest int.
func NewFifoQueue[T any](options ...Option[T]) (*FifoQueue[T], error) {
	q := &FifoQueue[T]{
		capacity:    1<<(mathbits.UintSize-1) - 1,
		observeSize: func(int) {},
	}
	for _, apply := range options {
		if err := apply(q); err != nil {
			return nil, fmt.Errorf("could not configure fifo queue: %w", err)
		}
	}
	return q, nil
}

// Push appends element to the tail of the queue. It returns false if the
// queue is full and the element was dropped.
func (q *FifoQueue[T]) Push(element T) bool {
	q.mu.Lock()
	length := q.queue.Len()
	if length >= q.capacity {
		q.mu.Unlock()
		return false
	}
	q.queue.PushBack(element)
	q.mu.Unlock()

	q.observeSize(length + 1)
	return true
}

// Front returns the head of the queue without removing it.
func (q *FifoQueue[T]) Front() (T, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	head, ok := q.queue.Front()
	if !ok {
		var zero T
		return zero, false
	}
	return head.(T), true
}

// Pop removes and returns the head of the queue.
func (q *FifoQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	head, ok := q.queue.PopFront()
	length := q.queue.Len()
	q.mu.Unlock()

	if !ok {
		var zero T
		return zero, false
	}
	q.observeSize(length)
	return head.(T), true
}

// Len returns the number of queued elements.
func (q *FifoQueue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.queue.Len()
}
