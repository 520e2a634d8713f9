package concurrency

import (
	"fmt"
	"sync"
	"testing"
)

type stateCtor struct {
	name string
	new  func(capacity int) State[int]
}

var backends = []stateCtor{
	{"mutex", func(c int) State[int] { return NewMutexState[int](c) }},
	{"cas", func(c int) State[int] { return NewCASState[int](c) }},
}

func TestState_BufferFIFO(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.new(4)
			s.Lock()
			for i := 0; i < 4; i++ {
				s.Push(i)
			}
			s.Unlock()

			snap := s.Snapshot()
			if snap.Len != 4 || snap.Cap != 4 || snap.Busy || snap.Closed {
				t.Fatalf("snapshot = %+v", snap)
			}
			if !snap.SendWouldBlock() || snap.RecvWouldBlock() {
				t.Fatalf("full buffer would-block flags wrong: %+v", snap)
			}

			s.Lock()
			for i := 0; i < 4; i++ {
				if v := s.Pop(); v != i {
					t.Fatalf("Pop() = %d, want %d", v, i)
				}
			}
			s.Unlock()
			if !s.Snapshot().RecvWouldBlock() {
				t.Fatal("empty buffer should block receivers")
			}
		})
	}
}

func TestState_OverflowUnderflowFault(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.new(1)
			s.Lock()
			defer s.Unlock()
			expectFault(t, ErrBufferUnderflow, func() { s.Pop() })
			s.Push(1)
			expectFault(t, ErrBufferOverflow, func() { s.Push(2) })
		})
	}
}

func TestState_WaitersByDirection(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.new(0)
			g1, g2 := NewGroup(), NewGroup()
			r1 := NewSelector[int](g1, 0, DirRecv)
			w1 := NewSelector[int](g1, 1, DirSend)
			r2 := NewSelector[int](g2, 0, DirRecv)

			s.Lock()
			s.Enqueue(r1)
			s.Enqueue(w1)
			s.Enqueue(r2)
			s.Unlock()
			if !s.Snapshot().Waiting {
				t.Fatal("snapshot does not report waiters")
			}

			s.Lock()
			if got := s.Dequeue(DirRecv, g1); got != r2 {
				t.Fatalf("Dequeue(recv, skip g1) = %v, want r2", got)
			}
			if got := s.Dequeue(DirSend, nil); got != w1 {
				t.Fatalf("Dequeue(send) = %v, want w1", got)
			}
			s.Remove(r1)
			if got := s.Dequeue(DirRecv, nil); got != nil {
				t.Fatalf("Dequeue on empty = %v", got)
			}
			s.Unlock()
			if s.Snapshot().Waiting {
				t.Fatal("snapshot still reports waiters")
			}
		})
	}
}

func TestState_CloseVisibleInSnapshot(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.new(2)
			s.Lock()
			s.Push(7)
			s.MarkClosed()
			if !s.Closed() {
				t.Fatal("Closed() false under lock")
			}
			s.Unlock()
			snap := s.Snapshot()
			if !snap.Closed || snap.Len != 1 {
				t.Fatalf("snapshot = %+v", snap)
			}
		})
	}
}

func TestCASState_HandleReuse(t *testing.T) {
	s := NewCASState[int](0)
	g := NewGroup()
	s.Lock()
	defer s.Unlock()
	for round := 0; round < 3; round++ {
		sels := make([]*Selector[int], 16)
		for i := range sels {
			sels[i] = NewSelector[int](g, i, DirRecv)
			s.Enqueue(sels[i])
		}
		for i := range sels {
			if got := s.Dequeue(DirRecv, nil); got != sels[i] {
				t.Fatalf("round %d: dequeue %d out of order", round, i)
			}
		}
	}
	if len(s.slots) != 17 {
		t.Fatalf("slot table grew to %d, want 17", len(s.slots))
	}
}

func TestMutexState_NilInterfaceValues(t *testing.T) {
	s := NewMutexState[error](1)
	s.Lock()
	defer s.Unlock()
	s.Push(nil)
	if v := s.Pop(); v != nil {
		t.Fatalf("Pop() = %v, want nil", v)
	}
}

func TestState_LockExcludes(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.new(1)
			const workers, rounds = 8, 2000
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < rounds; i++ {
						s.Lock()
						s.Push(i)
						if v := s.Pop(); v != i {
							panic(fmt.Sprintf("interleaved critical section: %d != %d", v, i))
						}
						s.Unlock()
					}
				}()
			}
			wg.Wait()
			if n := s.Snapshot().Len; n != 0 {
				t.Fatalf("Len = %d after balanced push/pop", n)
			}
		})
	}
}
