// File: api/channel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Directional channel contracts. csp.Chan satisfies all of them; consumers
// that only produce or only consume should depend on the narrow one.

package api

// Sender is the producing half of a channel.
type Sender[T any] interface {
	// Send blocks until v is delivered or buffered. Panics if the channel is closed.
	Send(v T)
	// TrySend never blocks; false means the channel was not ready.
	TrySend(v T) bool
	// Close marks the channel closed. Panics on a second call.
	Close()
}

// Receiver is the consuming half of a channel.
type Receiver[T any] interface {
	// Recv blocks until a value arrives; ok is false once the channel is
	// closed and drained.
	Recv() (v T, ok bool)
	// TryRecv never blocks; ready is false when nothing was available.
	TryRecv() (v T, ok, ready bool)
}

// Channel is a bidirectional channel handle.
type Channel[T any] interface {
	Sender[T]
	Receiver[T]
	Len() int
	Cap() int
}
