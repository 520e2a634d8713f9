package thread

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-csp/control"
	"github.com/momentics/hioload-csp/csp"
)

func TestPool_RunsAllTasks(t *testing.T) {
	for _, b := range []csp.Backend{csp.BackendMutex, csp.BackendCAS} {
		t.Run(b.String(), func(t *testing.T) {
			p := NewPool(PoolConfig{Workers: 4, QueueDepth: 8, Backend: b})
			if p.NumWorkers() != 4 {
				t.Fatalf("NumWorkers() = %d", p.NumWorkers())
			}
			var count atomic.Int64
			const tasks = 1000
			for i := 0; i < tasks; i++ {
				if err := p.Submit(func() { count.Add(1) }); err != nil {
					t.Fatalf("Submit: %v", err)
				}
			}
			if err := p.Shutdown(); err != nil {
				t.Fatalf("Shutdown: %v", err)
			}
			if count.Load() != tasks {
				t.Fatalf("ran %d tasks, want %d", count.Load(), tasks)
			}
			stats := p.Stats()
			if stats["submitted_tasks"] != tasks || stats["completed_tasks"] != tasks {
				t.Fatalf("Stats() = %v", stats)
			}
			if err := p.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
				t.Fatalf("Submit after Shutdown = %v", err)
			}
			if err := p.Shutdown(); err != nil {
				t.Fatalf("second Shutdown: %v", err)
			}
		})
	}
}

func TestPool_TrySubmit(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1, QueueDepth: 1})
	release := make(chan struct{})
	started := make(chan struct{})
	if err := p.Submit(func() {
		close(started)
		<-release
	}); err != nil {
		t.Fatal(err)
	}
	<-started
	ok, err := p.TrySubmit(func() {})
	if !ok || err != nil {
		t.Fatalf("TrySubmit into free slot = %v,%v", ok, err)
	}
	ok, err = p.TrySubmit(func() {})
	if ok || err != nil {
		t.Fatalf("TrySubmit into full queue = %v,%v", ok, err)
	}
	if _, err := p.TrySubmit(nil); !errors.Is(err, ErrNilTask) {
		t.Fatalf("TrySubmit(nil) = %v", err)
	}
	close(release)
	if err := p.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if _, err := p.TrySubmit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("TrySubmit after Shutdown = %v", err)
	}
}

func TestPool_StopAbandonsQueue(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1, QueueDepth: 16})
	release := make(chan struct{})
	started := make(chan struct{})
	var ran atomic.Int64
	p.Submit(func() {
		close(started)
		<-release
	})
	<-started
	for i := 0; i < 10; i++ {
		if err := p.Submit(func() { ran.Add(1) }); err != nil {
			t.Fatal(err)
		}
	}

	stopped := make(chan error, 1)
	go func() { stopped <- p.Stop() }()
	time.Sleep(10 * time.Millisecond)
	close(release)
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	if ran.Load() != 0 {
		t.Fatalf("%d queued tasks ran after Stop", ran.Load())
	}
}

func TestPool_StopReleasesBlockedSubmit(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1, QueueDepth: 0})
	release := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func() {
		close(started)
		<-release
	})
	<-started

	errs := make(chan error, 1)
	go func() { errs <- p.Submit(func() {}) }()
	time.Sleep(10 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Stop()
	}()
	select {
	case err := <-errs:
		if !errors.Is(err, ErrPoolClosed) {
			t.Fatalf("blocked Submit = %v, want ErrPoolClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("blocked Submit not released by Stop")
	}
	close(release)
	wg.Wait()
}

func TestPool_TaskPanicRecovered(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 2, QueueDepth: 4})
	var ok atomic.Int64
	p.Submit(func() { panic("task failure") })
	p.Submit(func() { ok.Add(1) })
	if err := p.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if ok.Load() != 1 || p.Stats()["panicked_tasks"] != 1 {
		t.Fatalf("ok=%d stats=%v", ok.Load(), p.Stats())
	}
}

func TestPoolConfigFrom(t *testing.T) {
	cfg := control.DefaultConfig()
	cfg.Backend = "cas"
	cfg.Workers = 3
	pc, err := PoolConfigFrom(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Backend != csp.BackendCAS || pc.Workers != 3 || pc.QueueDepth != 64 {
		t.Fatalf("PoolConfigFrom = %+v", pc)
	}
	cfg.Backend = "nope"
	if _, err := PoolConfigFrom(cfg); !errors.Is(err, csp.ErrUnknownBackend) {
		t.Fatalf("PoolConfigFrom(nope) = %v", err)
	}
}

func TestPool_Probe(t *testing.T) {
	p := NewPool(PoolConfig{Name: "probe", Workers: 1})
	defer p.Shutdown()
	probes := control.NewDebugProbes()
	probes.RegisterProbe("pool.probe", p.Probe())
	stats, ok := probes.DumpState()["pool.probe"].(map[string]int64)
	if !ok || stats["num_workers"] != 1 {
		t.Fatalf("probe output = %v", probes.DumpState()["pool.probe"])
	}
}
