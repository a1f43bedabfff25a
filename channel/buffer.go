// buffer.go
//
// Buffer is the shared state behind every Channel handle: a fixed-capacity
// Ring guarded by a mutex plus two condition variables, one signaled when a
// slot frees up (not-full) and one signaled when a value arrives
// (not-empty). Capacity 0 is treated as a synchronous rendezvous and
// modeled internally as capacity 1 — the same wait/signal protocol applies,
// it simply never holds more than one in-flight value.

package channel

import (
	"sync"

	"github.com/lukasjhan/pcap-stat/ring"
)

// RecvStatus distinguishes the three outcomes a receive attempt can have.
type RecvStatus int

const (
	// Received means the returned value is genuine.
	Received RecvStatus = iota
	// Empty means the channel is open but currently has no value ready.
	// Only returned by TryReceive; a blocking Receive never returns it.
	Empty
	// Closed means the channel is closed and fully drained — the
	// terminal state. The returned value is the zero value of T.
	Closed
)

// Buffer is the reference-counted-in-spirit shared state of a Channel.
// In Go, ordinary garbage collection reclaims it once every Channel, In and
// Out handle referencing it is unreachable — there is no explicit refcount.
type Buffer[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	ring     *ring.Ring[T]
	closed   bool
}

// newBuffer allocates a Buffer with the given capacity. capacity == 0 is
// promoted to 1 (synchronous/rendezvous semantics per the channel spec).
func newBuffer[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	b := &Buffer[T]{ring: ring.New[T](capacity)}
	b.notEmpty = sync.NewCond(&b.mu)
	b.notFull = sync.NewCond(&b.mu)
	return b
}

// Send pushes x onto the buffer, blocking while it is full. Sending to a
// closed buffer is a silent no-op — it is not an error.
func (b *Buffer[T]) Send(x T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for b.ring.Full() && !b.closed {
		b.notFull.Wait()
	}
	if b.closed {
		return // closed while we were waiting for room
	}
	_ = b.ring.Push(x)
	b.notEmpty.Signal()
}

// Receive blocks until a value is available or the buffer is closed and
// drained. The second return value is Closed only in the terminal state;
// otherwise it is Received and the value is genuine.
func (b *Buffer[T]) Receive() (T, RecvStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	if b.ring.Empty() {
		if b.closed {
			return zero, Closed
		}
		for b.ring.Empty() && !b.closed {
			b.notEmpty.Wait()
		}
		if b.ring.Empty() && b.closed {
			return zero, Closed
		}
	}

	x, _ := b.ring.Pop()
	b.notFull.Signal()
	return x, Received
}

// TryReceive never blocks. It reports Empty if the buffer is open but has
// no value ready, Closed if the buffer is closed and drained (the value is
// the zero value of T, signaling end-of-stream), or Received with a
// genuine value otherwise.
func (b *Buffer[T]) TryReceive() (T, RecvStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	if b.ring.Empty() {
		if b.closed {
			return zero, Closed
		}
		return zero, Empty
	}

	x, _ := b.ring.Pop()
	b.notFull.Signal()
	return x, Received
}

// Close sets the closed flag and wakes every waiter on both conditions.
// Idempotent: closing an already-closed buffer is a no-op beyond the
// redundant broadcast.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.notEmpty.Broadcast()
	b.notFull.Broadcast()
}

// IsClosed reports whether Close has been called, regardless of whether
// the buffer has fully drained.
func (b *Buffer[T]) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
