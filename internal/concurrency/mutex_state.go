// File: internal/concurrency/mutex_state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MutexState is the coarse-grained backend: one sync.Mutex per channel,
// an eapache/queue ring as the buffer and two intrusive WaitLists.

package concurrency

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// Ensure compile-time interface compliance.
var _ State[int] = (*MutexState[int])(nil)

// MutexState guards a channel with a mutex.
type MutexState[T any] struct {
	mu       sync.Mutex
	capacity int
	buf      *queue.Queue // nil for unbuffered channels
	closed   bool
	recvq    WaitList[T]
	sendq    WaitList[T]

	// mirror is republished on every Unlock for lock-free Snapshot reads.
	mirror atomic.Uint64
}

// NewMutexState creates the state for a channel of the given capacity.
func NewMutexState[T any](capacity int) *MutexState[T] {
	s := &MutexState[T]{capacity: capacity}
	if capacity > 0 {
		s.buf = queue.New()
	}
	return s
}

func (s *MutexState[T]) Lock() { s.mu.Lock() }

func (s *MutexState[T]) Unlock() {
	s.publish()
	s.mu.Unlock()
}

func (s *MutexState[T]) publish() {
	var w uint64
	if s.closed {
		w |= wordClosed
	}
	waiting := uint64(s.recvq.Len() + s.sendq.Len())
	if waiting > wordHeadMax {
		waiting = wordHeadMax
	}
	w = withHead(w, uint32(waiting))
	w = withLen(w, s.Len())
	s.mirror.Store(w)
}

func (s *MutexState[T]) Closed() bool { return s.closed }

func (s *MutexState[T]) MarkClosed() { s.closed = true }

func (s *MutexState[T]) Len() int {
	if s.buf == nil {
		return 0
	}
	return s.buf.Length()
}

func (s *MutexState[T]) Cap() int { return s.capacity }

func (s *MutexState[T]) Push(v T) {
	if s.Len() >= s.capacity {
		fault(ErrBufferOverflow, "mutex backend")
	}
	s.buf.Add(v)
}

func (s *MutexState[T]) Pop() T {
	if s.Len() == 0 {
		fault(ErrBufferUnderflow, "mutex backend")
	}
	// A nil interface value of T comes back as an untyped nil.
	x := s.buf.Remove()
	if x == nil {
		var zero T
		return zero
	}
	return x.(T)
}

func (s *MutexState[T]) list(dir Dir) *WaitList[T] {
	switch dir {
	case DirRecv:
		return &s.recvq
	case DirSend:
		return &s.sendq
	}
	fault(ErrInconsistent, "invalid direction")
	return nil
}

func (s *MutexState[T]) Enqueue(sel *Selector[T]) {
	s.list(sel.Dir).PushBack(sel)
}

func (s *MutexState[T]) Dequeue(dir Dir, skip *Group) *Selector[T] {
	return s.list(dir).Dequeue(skip)
}

func (s *MutexState[T]) Remove(sel *Selector[T]) {
	if !sel.queued {
		return
	}
	s.list(sel.Dir).Remove(sel)
}

func (s *MutexState[T]) Snapshot() Snapshot {
	return decodeWord(s.mirror.Load(), s.capacity)
}
