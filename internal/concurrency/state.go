// File: internal/concurrency/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// State is the contract both channel backends implement. The channel
// algorithm (rendezvous, buffering, promotion, close) is written once
// against it; backends differ only in how they make the critical section
// exclusive and where they keep the buffer and the waiters.

package concurrency

// State is the lockable storage of one channel. Every method except Lock,
// Cap and Snapshot requires the lock.
type State[T any] interface {
	Lock()
	Unlock()

	Closed() bool
	MarkClosed()

	// Len is the buffered count; Cap the fixed capacity.
	Len() int
	Cap() int
	Push(v T)
	Pop() T

	// Enqueue registers s as pending in its direction.
	Enqueue(s *Selector[T])
	// Dequeue removes the longest-registered selector of dir whose group
	// is not skip, or returns nil.
	Dequeue(dir Dir, skip *Group) *Selector[T]
	// Remove retracts s if it is still queued.
	Remove(s *Selector[T])

	// Snapshot reads the published state without the lock.
	Snapshot() Snapshot
}

// Snapshot is a lock-free view of a channel state.
type Snapshot struct {
	Len     int
	Cap     int
	Waiting bool // at least one selector registered
	Closed  bool
	Busy    bool // a critical section was in progress; fields may be stale
}

// RecvWouldBlock reports that a non-blocking receive cannot succeed.
func (s Snapshot) RecvWouldBlock() bool {
	return !s.Busy && !s.Closed && !s.Waiting && s.Len == 0
}

// SendWouldBlock reports that a non-blocking send cannot succeed.
func (s Snapshot) SendWouldBlock() bool {
	return !s.Busy && !s.Closed && !s.Waiting && s.Len >= s.Cap
}

// State word layout, shared by the CAS backend (as its lock word) and the
// mutex backend (as its published mirror):
//
//	bit  63     busy
//	bit  62     closed
//	bits 32..61 waiter list head handle, or waiter count for the mirror
//	bits 0..31  buffered length
const (
	wordBusy      uint64 = 1 << 63
	wordClosed    uint64 = 1 << 62
	wordHeadShift        = 32
	wordHeadMax   uint64 = 1<<30 - 1
	wordHeadMask  uint64 = wordHeadMax << wordHeadShift
	wordLenMask   uint64 = 1<<32 - 1
)

func wordLen(w uint64) int { return int(w & wordLenMask) }

func wordHead(w uint64) uint32 { return uint32((w & wordHeadMask) >> wordHeadShift) }

func withLen(w uint64, n int) uint64 { return (w &^ wordLenMask) | (uint64(n) & wordLenMask) }

func withHead(w uint64, h uint32) uint64 {
	return (w &^ wordHeadMask) | ((uint64(h) & wordHeadMax) << wordHeadShift)
}

func decodeWord(w uint64, capacity int) Snapshot {
	return Snapshot{
		Len:     wordLen(w),
		Cap:     capacity,
		Waiting: wordHead(w) != 0,
		Closed:  w&wordClosed != 0,
		Busy:    w&wordBusy != 0,
	}
}
