package concurrency

import "testing"

func TestGroup_ClaimOnce(t *testing.T) {
	g := NewGroup()
	if g.Claimed() {
		t.Fatal("new group already claimed")
	}
	if got := g.Completer(); got != -1 {
		t.Fatalf("Completer() = %d before completion, want -1", got)
	}
	if !g.Claim() {
		t.Fatal("first Claim failed")
	}
	if g.Claim() {
		t.Fatal("second Claim succeeded")
	}
	g.Complete(3)
	if got := g.Completer(); got != 3 {
		t.Fatalf("Completer() = %d, want 3", got)
	}
	if !g.Notified() {
		t.Fatal("Complete did not notify")
	}
}

func TestGroup_CompleteWithoutClaimFaults(t *testing.T) {
	g := NewGroup()
	expectFault(t, ErrInconsistent, func() { g.Complete(0) })
}

func TestSelector_ResolveReceiver(t *testing.T) {
	g := NewGroup()
	s := NewSelector[string](g, 1, DirRecv)
	g.Claim()
	s.Resolve("hello", true)
	g.Wait()
	if !s.Done() || !s.OK || s.Value != "hello" {
		t.Fatalf("selector = {done:%v ok:%v value:%q}", s.Done(), s.OK, s.Value)
	}
	if g.Completer() != 1 {
		t.Fatalf("Completer() = %d, want 1", g.Completer())
	}
}

func TestSelector_ResolveSenderKeepsValue(t *testing.T) {
	g := NewGroup()
	s := NewSelector[int](g, 0, DirSend)
	s.Value = 42
	g.Claim()
	s.Resolve(0, false)
	if s.Value != 42 || s.OK {
		t.Fatalf("sender after close-resolve: value=%d ok=%v", s.Value, s.OK)
	}
}

func TestSelector_ResolveTwiceFaults(t *testing.T) {
	g := NewGroup()
	s := NewSelector[int](g, 0, DirRecv)
	g.Claim()
	s.Resolve(1, true)
	expectFault(t, ErrInconsistent, func() { s.Resolve(2, true) })
}

func TestDir_String(t *testing.T) {
	if DirRecv.String() != "recv" || DirSend.String() != "send" {
		t.Fatalf("Dir strings: %s %s", DirRecv, DirSend)
	}
}
