// File: thread/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool dispatches tasks to a fixed set of worker threads through a
// buffered csp channel. Stop is a csp.Signal every worker selects on.

package thread

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-csp/affinity"
	"github.com/momentics/hioload-csp/api"
	"github.com/momentics/hioload-csp/control"
	"github.com/momentics/hioload-csp/csp"
	"github.com/momentics/hioload-csp/internal/logging"
)

// Ensure compile-time interface compliance.
var (
	_ api.Executor         = (*Pool)(nil)
	_ api.GracefulShutdown = (*Pool)(nil)
)

// TaskFunc is a unit of work to execute.
type TaskFunc = func()

// PoolConfig sizes a Pool.
type PoolConfig struct {
	Name       string
	Workers    int
	QueueDepth int
	PinThreads bool
	Backend    csp.Backend
	Metrics    *control.ChanMetrics
}

// PoolConfigFrom derives a PoolConfig from the runtime configuration.
func PoolConfigFrom(cfg control.Config) (PoolConfig, error) {
	b, err := csp.ParseBackend(cfg.Backend)
	if err != nil {
		return PoolConfig{}, err
	}
	return PoolConfig{
		Name:       "pool",
		Workers:    cfg.Workers,
		QueueDepth: cfg.QueueDepth,
		PinThreads: cfg.PinThreads,
		Backend:    b,
	}, nil
}

// Pool manages worker threads.
type Pool struct {
	name    string
	tasks   *csp.Chan[TaskFunc]
	quit    *csp.Signal
	workers Group

	mu     sync.RWMutex // orders Submit against closing tasks
	closed bool

	numWorkers int

	// statistics
	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
}

// NewPool starts cfg.Workers workers; 0 or less means runtime.NumCPU().
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.QueueDepth < 0 {
		cfg.QueueDepth = 0
	}
	if cfg.Name == "" {
		cfg.Name = "pool"
	}
	chanOpts := []csp.Option{csp.WithBackend(cfg.Backend), csp.WithMetrics(cfg.Metrics)}
	p := &Pool{
		name:       cfg.Name,
		tasks:      csp.New[TaskFunc](cfg.QueueDepth, append(chanOpts, csp.WithName(cfg.Name+".tasks"))...),
		quit:       csp.NewSignal(append(chanOpts, csp.WithName(cfg.Name+".quit"))...),
		numWorkers: cfg.Workers,
	}

	var cpus []int
	if cfg.PinThreads {
		var err error
		if cpus, err = affinity.Allowed(); err != nil {
			logging.Component("thread").WithError(err).Warn("pinning disabled")
			cpus = nil
		}
	}
	for i := 0; i < cfg.Workers; i++ {
		opts := []Option{WithName(fmt.Sprintf("%s.worker-%d", cfg.Name, i))}
		if len(cpus) > 0 {
			opts = append(opts, WithCPU(cpus[i%len(cpus)]))
		}
		p.workers.Go(p.work, opts...)
	}
	logging.Component("thread").WithFields(logging.Fields{
		"pool":    cfg.Name,
		"workers": cfg.Workers,
		"queue":   cfg.QueueDepth,
	}).Debug("pool started")
	return p
}

func (p *Pool) work() {
	for {
		if p.quit.Fired() {
			return
		}
		var task TaskFunc
		var ok bool
		switch csp.Select(csp.RecvOK(p.tasks, &task, &ok), csp.Recv[struct{}](p.quit.Chan(), nil)) {
		case 0:
			if !ok {
				return
			}
			p.execute(task)
		default:
			return
		}
	}
}

func (p *Pool) execute(task TaskFunc) {
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			logging.Component("thread").WithFields(logging.Fields{
				"pool":  p.name,
				"panic": r,
			}).Warn("task panicked")
		}
		p.completed.Add(1)
	}()
	task()
}

// Submit queues task, blocking while the queue is full.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.quit.Fired() {
		return ErrPoolClosed
	}
	if csp.Select(csp.Send(p.tasks, TaskFunc(task)), csp.Recv[struct{}](p.quit.Chan(), nil)) != 0 {
		return ErrPoolClosed
	}
	p.submitted.Add(1)
	return nil
}

// TrySubmit queues task only if the queue has room or a worker is idle.
func (p *Pool) TrySubmit(task func()) (bool, error) {
	if task == nil {
		return false, ErrNilTask
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.quit.Fired() {
		return false, ErrPoolClosed
	}
	if !p.tasks.TrySend(task) {
		return false, nil
	}
	p.submitted.Add(1)
	return true, nil
}

// NumWorkers returns the number of worker threads.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Shutdown stops accepting tasks, lets workers drain the queue and waits
// for them. Calling it again only waits.
func (p *Pool) Shutdown() error {
	p.close()
	return p.workers.Join()
}

// Stop abandons queued tasks: workers exit after their current task.
func (p *Pool) Stop() error {
	p.quit.Fire()
	p.close()
	return p.workers.Join()
}

func (p *Pool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.tasks.Close()
	logging.Component("thread").WithField("pool", p.name).Debug("pool closed")
}

// Stats returns basic pool counters.
func (p *Pool) Stats() map[string]int64 {
	submitted := p.submitted.Load()
	completed := p.completed.Load()
	return map[string]int64{
		"submitted_tasks": submitted,
		"completed_tasks": completed,
		"panicked_tasks":  p.panicked.Load(),
		"queued_tasks":    int64(p.tasks.Len()),
		"num_workers":     int64(p.numWorkers),
	}
}

// Probe returns a debug probe reporting Stats, for control.DebugProbes.
func (p *Pool) Probe() func() any {
	return func() any { return p.Stats() }
}
