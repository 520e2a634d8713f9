// File: csp/chan.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Channel core: rendezvous handoff, bounded buffering with sender
// promotion, and close. The algorithm runs against concurrency.State, so
// both backends share it.

package csp

import (
	"iter"
	"sync/atomic"

	"github.com/momentics/hioload-csp/api"
	"github.com/momentics/hioload-csp/control"
	"github.com/momentics/hioload-csp/internal/concurrency"
	"github.com/momentics/hioload-csp/internal/logging"
)

// Ensure compile-time interface compliance.
var _ api.Channel[int] = (*Chan[int])(nil)

// nextID hands out channel identities; they define the select lock order.
var nextID atomic.Uint64

// Chan is a typed channel. Create it with New; the zero value is unusable.
type Chan[T any] struct {
	id      uint64
	name    string
	backend Backend
	st      concurrency.State[T]
	metrics *control.ChanMetrics
}

// Option configures a channel at construction.
type Option func(*chanOptions)

type chanOptions struct {
	backend Backend
	name    string
	metrics *control.ChanMetrics
}

// WithBackend picks the synchronization backend.
func WithBackend(b Backend) Option {
	return func(o *chanOptions) { o.backend = b }
}

// WithName labels the channel in logs, metrics and debug probes.
func WithName(name string) Option {
	return func(o *chanOptions) { o.name = name }
}

// WithMetrics records channel activity into m.
func WithMetrics(m *control.ChanMetrics) Option {
	return func(o *chanOptions) { o.metrics = m }
}

// New creates a channel with the given capacity; 0 means unbuffered.
func New[T any](capacity int, opts ...Option) *Chan[T] {
	o := chanOptions{backend: DefaultBackend()}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity < 0 {
		misuse(ErrNegativeCapacity, logging.Fields{"capacity": capacity, "chan": o.name})
	}
	if o.backend != BackendMutex && o.backend != BackendCAS {
		misuse(ErrUnknownBackend, logging.Fields{"backend": int32(o.backend), "chan": o.name})
	}
	return &Chan[T]{
		id:      nextID.Add(1),
		name:    o.name,
		backend: o.backend,
		st:      newState[T](o.backend, capacity),
		metrics: o.metrics,
	}
}

// ID returns the process-unique channel identity.
func (c *Chan[T]) ID() uint64 { return c.id }

// Name returns the label given with WithName.
func (c *Chan[T]) Name() string { return c.name }

// Backend returns the backend the channel runs on.
func (c *Chan[T]) Backend() Backend { return c.backend }

// Len returns the number of buffered values.
func (c *Chan[T]) Len() int { return c.st.Snapshot().Len }

// Cap returns the configured capacity.
func (c *Chan[T]) Cap() int { return c.st.Cap() }

// Closed reports whether Close has been called.
func (c *Chan[T]) Closed() bool { return c.st.Snapshot().Closed }

func (c *Chan[T]) label() string {
	if c.name == "" {
		return "unnamed"
	}
	return c.name
}

func (c *Chan[T]) fault(err error) {
	misuse(err, logging.Fields{"chan": c.name, "chan_id": c.id, "backend": c.backend.String()})
}

// Send delivers v, blocking until a receiver takes it or buffer space
// frees up. Panics if the channel is closed before or while blocked.
func (c *Chan[T]) Send(v T) {
	c.send(v, true)
}

// TrySend delivers v only if that needs no blocking. Panics if the channel
// is closed.
func (c *Chan[T]) TrySend(v T) bool {
	return c.send(v, false)
}

func (c *Chan[T]) send(v T, block bool) bool {
	if !block && c.st.Snapshot().SendWouldBlock() {
		return false
	}
	c.st.Lock()
	if c.st.Closed() {
		c.st.Unlock()
		c.fault(ErrSendOnClosed)
	}
	if r, ok := c.sendLocked(v, nil); ok {
		c.st.Unlock()
		if r != nil {
			r.Resolve(v, true)
		}
		c.metrics.ObserveSend(c.label(), false)
		return true
	}
	if !block {
		c.st.Unlock()
		return false
	}
	g := concurrency.NewGroup()
	sel := concurrency.NewSelector[T](g, 0, concurrency.DirSend)
	sel.Value = v
	c.st.Enqueue(sel)
	c.st.Unlock()

	g.Wait()
	if !sel.OK {
		c.fault(ErrSendOnClosed)
	}
	c.metrics.ObserveSend(c.label(), true)
	return true
}

// sendLocked tries the non-blocking paths of a send on an open channel:
// rendezvous with the longest-waiting receiver, then the buffer. A returned
// receiver is claimed and must be resolved with v by the caller.
func (c *Chan[T]) sendLocked(v T, skip *concurrency.Group) (*concurrency.Selector[T], bool) {
	if r := c.claim(concurrency.DirRecv, skip); r != nil {
		return r, true
	}
	if c.st.Len() < c.st.Cap() {
		c.st.Push(v)
		return nil, true
	}
	return nil, false
}

// Recv blocks until a value is available. ok is false when the channel is
// closed and drained.
func (c *Chan[T]) Recv() (T, bool) {
	v, ok, _ := c.recv(true)
	return v, ok
}

// TryRecv receives without blocking; ready is false when no value and no
// close could be observed.
func (c *Chan[T]) TryRecv() (v T, ok, ready bool) {
	return c.recv(false)
}

func (c *Chan[T]) recv(block bool) (T, bool, bool) {
	var zero T
	if !block && c.st.Snapshot().RecvWouldBlock() {
		return zero, false, false
	}
	c.st.Lock()
	v, ok, s, done := c.recvLocked(nil)
	if done {
		c.st.Unlock()
		if s != nil {
			s.Resolve(zero, true)
		}
		if ok {
			c.metrics.ObserveRecv(c.label(), false)
		}
		return v, ok, true
	}
	if !block {
		c.st.Unlock()
		return zero, false, false
	}
	g := concurrency.NewGroup()
	sel := concurrency.NewSelector[T](g, 0, concurrency.DirRecv)
	c.st.Enqueue(sel)
	c.st.Unlock()

	g.Wait()
	if sel.OK {
		c.metrics.ObserveRecv(c.label(), true)
	}
	return sel.Value, sel.OK, true
}

// recvLocked tries the non-blocking paths of a receive. When done is true
// the receive completed with (v, ok); a returned sender is claimed and must
// be resolved by the caller once the lock is dropped.
func (c *Chan[T]) recvLocked(skip *concurrency.Group) (v T, ok bool, s *concurrency.Selector[T], done bool) {
	if c.st.Len() > 0 {
		v = c.st.Pop()
		// Pending senders only exist while the buffer is full; move the
		// oldest one into the slot just freed.
		if s = c.claim(concurrency.DirSend, skip); s != nil {
			c.st.Push(s.Value)
		}
		return v, true, s, true
	}
	if s = c.claim(concurrency.DirSend, skip); s != nil {
		return s.Value, true, s, true
	}
	if c.st.Closed() {
		return v, false, nil, true
	}
	return v, false, nil, false
}

// claim dequeues pending selectors of dir until one wins arbitration.
// Losers were resolved through another channel and are dropped.
func (c *Chan[T]) claim(dir concurrency.Dir, skip *concurrency.Group) *concurrency.Selector[T] {
	for {
		s := c.st.Dequeue(dir, skip)
		if s == nil || s.Group.Claim() {
			return s
		}
	}
}

// Close marks the channel closed. Pending receivers return (zero, false);
// pending senders panic with ErrSendOnClosed. Buffered values stay
// receivable. Panics if already closed.
func (c *Chan[T]) Close() {
	c.st.Lock()
	if c.st.Closed() {
		c.st.Unlock()
		c.fault(ErrCloseOfClosed)
	}
	c.st.MarkClosed()
	var woken []*concurrency.Selector[T]
	for _, dir := range [...]concurrency.Dir{concurrency.DirRecv, concurrency.DirSend} {
		for s := c.claim(dir, nil); s != nil; s = c.claim(dir, nil) {
			woken = append(woken, s)
		}
	}
	c.st.Unlock()

	var zero T
	for _, s := range woken {
		s.Resolve(zero, false)
	}
	c.metrics.ObserveClose(c.label())
	if len(woken) > 0 {
		logging.Component("csp").WithFields(logging.Fields{
			"chan":  c.name,
			"woken": len(woken),
		}).Debug("close released pending operations")
	}
}

// All yields received values until the channel is closed and drained, or
// the consumer stops.
func (c *Chan[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := c.Recv()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Stats is a point-in-time view of a channel.
type Stats struct {
	ID      uint64 `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Backend string `json:"backend" yaml:"backend"`
	Len     int    `json:"len" yaml:"len"`
	Cap     int    `json:"cap" yaml:"cap"`
	Closed  bool   `json:"closed" yaml:"closed"`
	Waiting bool   `json:"waiting" yaml:"waiting"`
}

// Stats reads the channel state without locking it.
func (c *Chan[T]) Stats() Stats {
	snap := c.st.Snapshot()
	return Stats{
		ID:      c.id,
		Name:    c.name,
		Backend: c.backend.String(),
		Len:     snap.Len,
		Cap:     snap.Cap,
		Closed:  snap.Closed,
		Waiting: snap.Waiting,
	}
}

// Probe returns a debug probe reporting Stats, for control.DebugProbes.
func (c *Chan[T]) Probe() func() any {
	return func() any { return c.Stats() }
}
