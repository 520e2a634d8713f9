// File: internal/concurrency/cas_state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// CASState is the lock-free backend. The whole channel state that other
// threads need to inspect lives in one 64-bit word: busy and closed flags,
// the handle of the oldest pending selector and the buffered length. A
// writer enters the critical section by CAS-ing the busy bit in and leaves
// it by publishing the updated word with the bit cleared; readers decode the
// word without ever taking it.
//
// Selectors are referenced through handles into a per-channel slot table,
// so the word never carries a raw pointer the collector cannot see.

package concurrency

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Ensure compile-time interface compliance.
var _ State[int] = (*CASState[int])(nil)

// activeSpins is how many busy-word retries spin before yielding.
const activeSpins = 64

// CASState guards a channel with a packed state word.
type CASState[T any] struct {
	word atomic.Uint64
	_    cpu.CacheLinePad

	// Fields below are owned by the busy-bit holder.
	held     uint64 // working image of word, published by Unlock
	capacity int
	ring     *RingBuffer[T] // nil for unbuffered channels
	slots    []*Selector[T] // handle -> selector; slot 0 is never used
	free     []uint32
	tail     uint32
}

// NewCASState creates the state for a channel of the given capacity.
func NewCASState[T any](capacity int) *CASState[T] {
	s := &CASState[T]{
		capacity: capacity,
		slots:    make([]*Selector[T], 1, 8),
	}
	if capacity > 0 {
		s.ring = NewRingBuffer[T](uint64(capacity))
	}
	return s
}

// Lock spins until it swaps the busy bit into an idle word.
func (s *CASState[T]) Lock() {
	for i := 0; ; i++ {
		w := s.word.Load()
		if w&wordBusy == 0 && s.word.CompareAndSwap(w, w|wordBusy) {
			s.held = w
			return
		}
		if i >= activeSpins {
			runtime.Gosched()
		}
	}
}

// Unlock publishes the working image and clears busy.
func (s *CASState[T]) Unlock() {
	if s.word.Load()&wordBusy == 0 {
		fault(ErrInconsistent, "unlock of idle state word")
	}
	s.word.Store(s.held &^ wordBusy)
}

func (s *CASState[T]) Closed() bool { return s.held&wordClosed != 0 }

func (s *CASState[T]) MarkClosed() { s.held |= wordClosed }

func (s *CASState[T]) Len() int { return wordLen(s.held) }

func (s *CASState[T]) Cap() int { return s.capacity }

func (s *CASState[T]) Push(v T) {
	n := wordLen(s.held)
	if n >= s.capacity || !s.ring.Enqueue(v) {
		fault(ErrBufferOverflow, "cas backend")
	}
	s.held = withLen(s.held, n+1)
}

func (s *CASState[T]) Pop() T {
	n := wordLen(s.held)
	if n == 0 {
		fault(ErrBufferUnderflow, "cas backend")
	}
	v, ok := s.ring.Dequeue()
	if !ok {
		fault(ErrBufferUnderflow, "cas backend ring")
	}
	s.held = withLen(s.held, n-1)
	return v
}

func (s *CASState[T]) alloc(sel *Selector[T]) uint32 {
	if n := len(s.free); n > 0 {
		h := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[h] = sel
		return h
	}
	if uint64(len(s.slots)) > wordHeadMax {
		fault(ErrTooManyWaiters, "")
	}
	s.slots = append(s.slots, sel)
	return uint32(len(s.slots) - 1)
}

// Enqueue links sel at the tail of the waiter list.
func (s *CASState[T]) Enqueue(sel *Selector[T]) {
	if sel.queued {
		fault(ErrInconsistent, "selector queued twice")
	}
	h := s.alloc(sel)
	sel.handle = h
	sel.hprev = s.tail
	sel.hnext = 0
	if s.tail == 0 {
		s.held = withHead(s.held, h)
	} else {
		s.slots[s.tail].hnext = h
	}
	s.tail = h
	sel.queued = true
}

// Dequeue walks from the head, which is the oldest selector. The list mixes
// directions only when one select waits to both send and receive here.
func (s *CASState[T]) Dequeue(dir Dir, skip *Group) *Selector[T] {
	for h := wordHead(s.held); h != 0; {
		sel := s.slots[h]
		next := sel.hnext
		if sel.Dir == dir && (skip == nil || sel.Group != skip) {
			s.unlink(sel)
			return sel
		}
		h = next
	}
	return nil
}

func (s *CASState[T]) Remove(sel *Selector[T]) {
	if !sel.queued {
		return
	}
	s.unlink(sel)
}

func (s *CASState[T]) unlink(sel *Selector[T]) {
	h := sel.handle
	if h == 0 || int(h) >= len(s.slots) || s.slots[h] != sel {
		fault(ErrInconsistent, "selector handle not owned by this channel")
	}
	if sel.hprev == 0 {
		if wordHead(s.held) != h {
			fault(ErrInconsistent, "selector not linked at head")
		}
		s.held = withHead(s.held, sel.hnext)
	} else {
		s.slots[sel.hprev].hnext = sel.hnext
	}
	if sel.hnext == 0 {
		if s.tail != h {
			fault(ErrInconsistent, "selector not linked at tail")
		}
		s.tail = sel.hprev
	} else {
		s.slots[sel.hnext].hprev = sel.hprev
	}
	s.slots[h] = nil
	s.free = append(s.free, h)
	sel.handle, sel.hprev, sel.hnext = 0, 0, 0
	sel.queued = false
}

func (s *CASState[T]) Snapshot() Snapshot {
	return decodeWord(s.word.Load(), s.capacity)
}
