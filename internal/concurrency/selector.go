// File: internal/concurrency/selector.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Selector is the descriptor a pending send or receive registers on a
// channel. Selectors created by one blocking call (a plain Send/Recv, or
// every operand of a select) share a Group, which carries the Waiter, the
// arbitration cell and the completer slot.
//
// Arbitration: a completing party first removes the Selector from its list,
// then calls Group.Claim. Only the party whose Claim succeeds may write the
// payload and call Resolve; a failed Claim means the group was resolved
// through another selector and the candidate is dropped.

package concurrency

import "sync/atomic"

// Dir is the direction of a pending operation.
type Dir uint8

const (
	DirRecv Dir = iota + 1
	DirSend
)

func (d Dir) String() string {
	switch d {
	case DirRecv:
		return "recv"
	case DirSend:
		return "send"
	default:
		return "invalid"
	}
}

const (
	groupWaiting int32 = iota
	groupClaimed
)

// Group is shared by all selectors of one blocking call.
type Group struct {
	Waiter
	active    atomic.Int32
	completer atomic.Int32
}

// NewGroup returns an unclaimed group with no completer.
func NewGroup() *Group {
	g := &Group{}
	g.completer.Store(-1)
	return g
}

// Claim performs the single waiting->claimed transition. Exactly one caller
// ever observes true.
func (g *Group) Claim() bool {
	return g.active.CompareAndSwap(groupWaiting, groupClaimed)
}

// Claimed reports whether the group has been claimed.
func (g *Group) Claimed() bool {
	return g.active.Load() == groupClaimed
}

// Complete records which selector finished and wakes the owner. The caller
// must hold the claim.
func (g *Group) Complete(id int) {
	if !g.Claimed() {
		fault(ErrInconsistent, "complete without claim")
	}
	g.completer.Store(int32(id))
	g.Notify()
}

// Completer returns the id passed to Complete, or -1.
func (g *Group) Completer() int {
	return int(g.completer.Load())
}

// Selector is one pending operation on one channel.
type Selector[T any] struct {
	Group *Group
	ID    int
	Dir   Dir

	// Value is the payload: read by the completer for a sender, written by
	// the completer for a receiver.
	Value T
	// OK is false when the selector was resolved by close.
	OK bool

	// WaitList linkage (mutex backend).
	prev, next *Selector[T]
	list       *WaitList[T]

	// handle linkage (CAS backend); 0 means unlinked.
	handle, hprev, hnext uint32

	queued bool
	done   bool
}

// NewSelector builds an unqueued selector bound to g.
func NewSelector[T any](g *Group, id int, dir Dir) *Selector[T] {
	return &Selector[T]{Group: g, ID: id, Dir: dir}
}

// Queued reports whether a backend currently references the selector.
// Only meaningful under the owning channel's lock.
func (s *Selector[T]) Queued() bool {
	return s.queued
}

// Done reports whether the selector has been resolved. Safe to read by the
// owner after the group's Wait returns.
func (s *Selector[T]) Done() bool {
	return s.done
}

// Resolve delivers the outcome to a claimed, dequeued selector and wakes
// its owner. For receivers v is the delivered payload; for senders v is
// ignored.
func (s *Selector[T]) Resolve(v T, ok bool) {
	if s.queued || s.done {
		fault(ErrInconsistent, "resolve of queued or finished selector")
	}
	if s.Dir == DirRecv {
		s.Value = v
	}
	s.OK = ok
	s.done = true
	s.Group.Complete(s.ID)
}
