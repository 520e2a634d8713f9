// File: internal/concurrency/waitlist.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Intrusive doubly linked FIFO of selectors. The links live in the
// Selector itself, so queueing never allocates. Not safe for concurrent
// use; the owning channel's lock protects it.

package concurrency

// WaitList is a FIFO of pending selectors.
type WaitList[T any] struct {
	head, tail *Selector[T]
	n          int
}

// Len returns the number of queued selectors.
func (l *WaitList[T]) Len() int { return l.n }

// Empty reports whether the list has no selectors.
func (l *WaitList[T]) Empty() bool { return l.head == nil }

// PushBack appends s.
func (l *WaitList[T]) PushBack(s *Selector[T]) {
	if s.queued {
		fault(ErrInconsistent, "selector queued twice")
	}
	s.list = l
	s.prev = l.tail
	s.next = nil
	if l.tail == nil {
		l.head = s
	} else {
		l.tail.next = s
	}
	l.tail = s
	s.queued = true
	l.n++
}

// Dequeue removes and returns the longest-queued selector whose group is
// not skip. Selectors of skip stay in place.
func (l *WaitList[T]) Dequeue(skip *Group) *Selector[T] {
	for s := l.head; s != nil; s = s.next {
		if skip != nil && s.Group == skip {
			continue
		}
		l.unlink(s)
		return s
	}
	return nil
}

// Remove retracts s. A selector already taken off by a completer is left
// alone; one that claims to be queued here but is not linked is a fault.
func (l *WaitList[T]) Remove(s *Selector[T]) {
	if !s.queued {
		return
	}
	if s.list != l {
		fault(ErrInconsistent, "selector queued on another list")
	}
	l.unlink(s)
}

func (l *WaitList[T]) unlink(s *Selector[T]) {
	if (s.prev == nil && l.head != s) || (s.next == nil && l.tail != s) {
		fault(ErrInconsistent, "selector not linked in its list")
	}
	if s.prev == nil {
		l.head = s.next
	} else {
		s.prev.next = s.next
	}
	if s.next == nil {
		l.tail = s.prev
	} else {
		s.next.prev = s.prev
	}
	s.prev, s.next, s.list = nil, nil, nil
	s.queued = false
	l.n--
}
