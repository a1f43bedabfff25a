// channel.go
//
// Channel is a typed bounded message queue over a shared Buffer. A Channel
// handle exposes both directions; In and Out are the dual single-direction
// views used when a producer or consumer should only be able to see one
// side of the pipe. Cloning any of the three produces another handle onto
// the same underlying Buffer — sends and receives interleave safely across
// every clone because Buffer itself serializes access under its mutex.

package channel

import "iter"

// New constructs a channel with buffer capacity N. capacity == 0 requests
// synchronous (rendezvous-like) behavior; capacity >= 1 is asynchronous and
// bounded.
func New[T any](capacity int) *Channel[T] {
	return &Channel[T]{buf: newBuffer[T](capacity)}
}

// Channel is a reference-counted-in-spirit handle onto one Buffer.
type Channel[T any] struct {
	buf *Buffer[T]
}

// Clone returns an additional handle to the same buffer.
func (c *Channel[T]) Clone() *Channel[T] { return &Channel[T]{buf: c.buf} }

// In returns the send-only endpoint of this channel.
func (c *Channel[T]) In() *In[T] { return &In[T]{buf: c.buf} }

// Out returns the receive-only endpoint of this channel.
func (c *Channel[T]) Out() *Out[T] { return &Out[T]{buf: c.buf} }

// Send pushes x, blocking while the buffer is full. No-op on a closed
// channel.
func (c *Channel[T]) Send(x T) { c.buf.Send(x) }

// Receive blocks until a value is available or the channel is closed and
// drained.
func (c *Channel[T]) Receive() (T, RecvStatus) { return c.buf.Receive() }

// TryReceive never blocks; see Buffer.TryReceive.
func (c *Channel[T]) TryReceive() (T, RecvStatus) { return c.buf.TryReceive() }

// Close marks the channel closed. Idempotent, safe under concurrent
// senders and receivers.
func (c *Channel[T]) Close() { c.buf.Close() }

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool { return c.buf.IsClosed() }

// In is the send-only endpoint of a Channel.
type In[T any] struct {
	buf *Buffer[T]
}

// Send pushes x, blocking while the buffer is full. No-op on a closed
// channel.
func (i *In[T]) Send(x T) { i.buf.Send(x) }

// Close marks the channel closed.
func (i *In[T]) Close() { i.buf.Close() }

// Clone returns an additional send endpoint onto the same buffer.
func (i *In[T]) Clone() *In[T] { return &In[T]{buf: i.buf} }

// Out is the receive-only endpoint of a Channel. It also implements the
// select package's probeable interface via TryReceive.
type Out[T any] struct {
	buf *Buffer[T]
}

// Receive blocks until a value is available or the channel is closed and
// drained.
func (o *Out[T]) Receive() (T, RecvStatus) { return o.buf.Receive() }

// TryReceive never blocks; see Buffer.TryReceive.
func (o *Out[T]) TryReceive() (T, RecvStatus) { return o.buf.TryReceive() }

// Closed reports whether the channel has been closed (it may still hold
// buffered values).
func (o *Out[T]) Closed() bool { return o.buf.IsClosed() }

// Clone returns an additional receive endpoint onto the same buffer.
func (o *Out[T]) Clone() *Out[T] { return &Out[T]{buf: o.buf} }

// All returns a range-over-func iterator that yields every value received
// until the channel is closed and drained, which is the terminal state.
// This is the lazy finite sequence described by the channel spec; ranging
// over it is equivalent to calling Receive in a loop and stopping at
// Closed.
func (o *Out[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, status := o.buf.Receive()
			if status == Closed {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
