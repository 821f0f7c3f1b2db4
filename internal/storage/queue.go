package storage

import "sync"

// writeQueue runs write on a background goroutine for every pushed value.
// push never blocks and is a no-op once the queue is closed.
type writeQueue[T any] struct {
	mu     sync.Mutex
	closed bool
	items  chan T
	done   chan struct{}
}

func newWriteQueue[T any](size int, write func(T)) *writeQueue[T] {
	q := &writeQueue[T]{
		items: make(chan T, size),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(q.done)
		for v := range q.items {
			write(v)
		}
	}()
	return q
}

// push queues v and reports whether it was accepted. It fails when the
// queue is full or closed.
func (q *writeQueue[T]) push(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.items <- v:
		return true
	default:
		return false
	}
}

// close stops accepting values and waits for queued writes to finish.
func (q *writeQueue[T]) close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.items)
	}
	q.mu.Unlock()
	<-q.done
}
