// File: thread/spawn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Spawn and Handle: one function on one locked OS thread.

package thread

import (
	"runtime"
	"runtime/debug"

	"github.com/momentics/hioload-csp/affinity"
	"github.com/momentics/hioload-csp/internal/concurrency"
	"github.com/momentics/hioload-csp/internal/logging"
)

// Option configures a spawned thread.
type Option func(*options)

type options struct {
	name string
	cpu  int
}

// WithName labels the thread in logs and panic errors.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithCPU pins the thread to cpu. A failed pin is logged and the thread
// runs unpinned.
func WithCPU(cpu int) Option {
	return func(o *options) { o.cpu = cpu }
}

// Handle is the join side of a spawned thread.
type Handle struct {
	name string
	done concurrency.Waiter
	err  error
}

// Spawn runs fn on a new goroutine locked to its own OS thread.
func Spawn(fn func(), opts ...Option) *Handle {
	o := options{cpu: -1}
	for _, opt := range opts {
		opt(&o)
	}
	h := &Handle{name: o.name}
	go h.run(fn, o)
	return h
}

func (h *Handle) run(fn func(), o options) {
	runtime.LockOSThread()
	pinned := false
	defer func() {
		// A pinned thread is left locked so it exits with the goroutine
		// instead of returning to the scheduler with a narrowed mask.
		if !pinned {
			runtime.UnlockOSThread()
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			h.err = &PanicError{Thread: h.name, Value: r, Stack: debug.Stack()}
			logging.Component("thread").WithFields(logging.Fields{
				"thread": h.name,
				"panic":  r,
			}).Debug("thread panicked")
		}
		h.done.Notify()
	}()

	if o.cpu >= 0 {
		if err := affinity.SetAffinity(o.cpu); err != nil {
			logging.Component("thread").WithFields(logging.Fields{
				"thread": h.name,
				"cpu":    o.cpu,
			}).WithError(err).Warn("cpu pin failed")
		} else {
			pinned = true
		}
	}
	fn()
}

// Name returns the label given with WithName.
func (h *Handle) Name() string { return h.name }

// Join blocks until the thread finishes. It returns a *PanicError if the
// function panicked.
func (h *Handle) Join() error {
	h.done.Wait()
	return h.err
}

// Done reports whether the thread has finished.
func (h *Handle) Done() bool {
	return h.done.Notified()
}
