// Package channels provides an unbounded, multi-producer FIFO channel whose
// receive side is polled rather than blocked on.
//
// Items live in a growable ring deque guarded by a mutex, so Send never waits
// on capacity.
package channels

import (
	"sync"

	"github.com/gammazero/deque"
	"github.com/pkg/errors"
)

// ErrClosed is returned by Send once the receiving side has been closed.
var ErrClosed = errors.New("channel closed")

type queue[T any] struct {
	mu     sync.Mutex
	items  deque.Deque[T]
	closed bool
}

// New creates a channel and returns its two endpoints.
func New[T any]() (Sender[T], *Receiver[T]) {
	q := &queue[T]{}
	return Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Sender is the producer end of a channel. It is a small value and can be
// copied or cloned freely; all copies feed the same queue.
type Sender[T any] struct {
	q *queue[T]
}

// Send appends v behind every previously sent item. It never blocks on capacity.
func (s Sender[T]) Send(v T) error {
	if s.q == nil {
		return ErrClosed
	}
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if s.q.closed {
		return ErrClosed
	}
	s.q.items.PushBack(v)
	return nil
}

// Clone returns another handle to the same channel.
func (s Sender[T]) Clone() Sender[T] {
	return Sender[T]{q: s.q}
}

// Receiver is the consumer end of a channel. It is meant for a single logical
// consumer; wrap it with Share when several call sites need to poll it.
type Receiver[T any] struct {
	q *queue[T]
}

// TryRecv removes and returns the oldest item. The second result is false when
// nothing is pending or the receiver was closed.
func (r *Receiver[T]) TryRecv() (T, bool) {
	var zero T
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	if r.q.closed || r.q.items.Len() == 0 {
		return zero, false
	}
	return r.q.items.PopFront(), true
}

// Len reports how many items are waiting.
func (r *Receiver[T]) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.items.Len()
}

// Close drops the receiving side. Pending items are discarded and every later
// Send on any clone of the sender fails with ErrClosed. Close is idempotent.
func (r *Receiver[T]) Close() {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	r.q.closed = true
	r.q.items.Clear()
}

// SharedReceiver lets several call sites take turns polling one Receiver.
type SharedReceiver[T any] struct {
	mu sync.Mutex
	rx *Receiver[T]
}

// Share wraps rx for shared polling.
func Share[T any](rx *Receiver[T]) *SharedReceiver[T] {
	return &SharedReceiver[T]{rx: rx}
}

// Poll takes exclusive access, attempts a single non-blocking removal and
// releases access before returning.
func (s *SharedReceiver[T]) Poll() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.TryRecv()
}

// Len reports how many items are waiting.
func (s *SharedReceiver[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.Len()
}

// Close closes the wrapped receiver.
func (s *SharedReceiver[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rx.Close()
}
