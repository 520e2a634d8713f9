package thread

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-csp/affinity"
	"github.com/momentics/hioload-csp/csp"
	"github.com/momentics/hioload-csp/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestSpawnJoin(t *testing.T) {
	var ran atomic.Bool
	h := Spawn(func() { ran.Store(true) }, WithName("worker"))
	if err := h.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !ran.Load() || !h.Done() || h.Name() != "worker" {
		t.Fatalf("ran=%v done=%v name=%q", ran.Load(), h.Done(), h.Name())
	}
	if err := h.Join(); err != nil {
		t.Fatalf("second Join: %v", err)
	}
}

func TestSpawnPanic(t *testing.T) {
	h := Spawn(func() { panic("boom") }, WithName("bad"))
	err := h.Join()
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Join() = %v, want *PanicError", err)
	}
	if pe.Value != "boom" || pe.Thread != "bad" || len(pe.Stack) == 0 {
		t.Fatalf("PanicError = %+v", pe)
	}
	if !strings.Contains(err.Error(), "bad panicked: boom") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestSpawnPanicUnwrapsChannelFault(t *testing.T) {
	c := csp.New[int](0)
	c.Close()
	err := Spawn(func() { c.Send(1) }).Join()
	if !errors.Is(err, csp.ErrSendOnClosed) {
		t.Fatalf("Join() = %v, want ErrSendOnClosed in chain", err)
	}
}

func TestSpawnPinned(t *testing.T) {
	cpus, err := affinity.Allowed()
	if err != nil || len(cpus) == 0 {
		t.Skip("affinity not available")
	}
	var got []int
	h := Spawn(func() { got, _ = affinity.Allowed() }, WithCPU(cpus[len(cpus)-1]))
	if err := h.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(got) != 1 || got[0] != cpus[len(cpus)-1] {
		t.Fatalf("pinned thread sees CPUs %v", got)
	}
}

func TestGroupJoin(t *testing.T) {
	var g Group
	var n atomic.Int32
	for i := 0; i < 4; i++ {
		g.Go(func() { n.Add(1) })
	}
	g.Go(func() { panic(errors.New("first")) })
	g.Go(func() { panic("second") })

	err := g.Join()
	if g.Len() != 6 || n.Load() != 4 {
		t.Fatalf("Len()=%d ran=%d", g.Len(), n.Load())
	}
	if err == nil || !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Fatalf("Join() = %v", err)
	}
}

func TestThreadsCommunicate(t *testing.T) {
	for _, b := range []csp.Backend{csp.BackendMutex, csp.BackendCAS} {
		t.Run(b.String(), func(t *testing.T) {
			c := csp.New[int](0, csp.WithBackend(b))
			var g Group
			var sum atomic.Int64
			g.Go(func() {
				for i := 1; i <= 100; i++ {
					c.Send(i)
				}
				c.Close()
			})
			g.Go(func() {
				for v := range c.All() {
					sum.Add(int64(v))
				}
			})
			done := make(chan error, 1)
			go func() { done <- g.Join() }()
			select {
			case err := <-done:
				if err != nil {
					t.Fatal(err)
				}
			case <-time.After(10 * time.Second):
				t.Fatal("threads did not finish")
			}
			if sum.Load() != 5050 {
				t.Fatalf("sum = %d, want 5050", sum.Load())
			}
		})
	}
}
