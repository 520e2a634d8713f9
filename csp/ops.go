// File: csp/ops.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Select operands. Each operand adapts one typed channel to the untyped
// surface the select engine drives: lock, poll, subscribe, unsubscribe and
// commit.

package csp

import "github.com/momentics/hioload-csp/internal/concurrency"

// Op is one operand of Select or Poll. Build it with Send, Recv or RecvOK.
type Op interface {
	chanID() uint64
	usable() bool
	reset()
	lock()
	unlock()
	// poll attempts the operation without blocking; it takes the lock itself.
	poll() bool
	// subscribe runs under the lock: it completes the operation at once
	// (true) or registers a selector bound to g (false).
	subscribe(g *concurrency.Group, id int) bool
	// unsubscribe runs under the lock and retracts the registered selector.
	unsubscribe()
	// commit finalizes the winning operand after every lock is released.
	commit(blocked bool)
	observeSelect(blocked bool)
}

type sendOp[T any] struct {
	c      *Chan[T]
	v      T
	sel    *concurrency.Selector[T]
	closed bool
}

// Send builds an operand that sends v on c. A nil c is never ready.
func Send[T any](c *Chan[T], v T) Op {
	return &sendOp[T]{c: c, v: v}
}

func (o *sendOp[T]) chanID() uint64 { return o.c.id }
func (o *sendOp[T]) usable() bool   { return o.c != nil }
func (o *sendOp[T]) lock()          { o.c.st.Lock() }
func (o *sendOp[T]) unlock()        { o.c.st.Unlock() }

func (o *sendOp[T]) observeSelect(blocked bool) {
	o.c.metrics.ObserveSelect(o.c.label(), blocked)
}

func (o *sendOp[T]) reset() {
	o.sel = nil
	o.closed = false
}

func (o *sendOp[T]) poll() bool {
	return o.c.send(o.v, false)
}

func (o *sendOp[T]) subscribe(g *concurrency.Group, id int) bool {
	if o.c.st.Closed() {
		o.closed = true
		return true
	}
	if r, ok := o.c.sendLocked(o.v, g); ok {
		if r != nil {
			r.Resolve(o.v, true)
		}
		return true
	}
	o.sel = concurrency.NewSelector[T](g, id, concurrency.DirSend)
	o.sel.Value = o.v
	o.c.st.Enqueue(o.sel)
	return false
}

func (o *sendOp[T]) unsubscribe() {
	o.c.st.Remove(o.sel)
}

func (o *sendOp[T]) commit(blocked bool) {
	if o.closed || (o.sel != nil && !o.sel.OK) {
		o.c.fault(ErrSendOnClosed)
	}
	o.c.metrics.ObserveSend(o.c.label(), blocked)
}

type recvOp[T any] struct {
	c     *Chan[T]
	out   *T
	okOut *bool
	sel   *concurrency.Selector[T]
	ok    bool
}

// Recv builds an operand that receives from c into out. out may be nil to
// discard the value. A nil c is never ready.
func Recv[T any](c *Chan[T], out *T) Op {
	return &recvOp[T]{c: c, out: out}
}

// RecvOK is Recv that also stores whether a value (true) or a close (false)
// completed the receive.
func RecvOK[T any](c *Chan[T], out *T, ok *bool) Op {
	return &recvOp[T]{c: c, out: out, okOut: ok}
}

func (o *recvOp[T]) chanID() uint64 { return o.c.id }
func (o *recvOp[T]) usable() bool   { return o.c != nil }
func (o *recvOp[T]) lock()          { o.c.st.Lock() }
func (o *recvOp[T]) unlock()        { o.c.st.Unlock() }

func (o *recvOp[T]) observeSelect(blocked bool) {
	o.c.metrics.ObserveSelect(o.c.label(), blocked)
}

func (o *recvOp[T]) reset() {
	o.sel = nil
	o.ok = false
}

func (o *recvOp[T]) store(v T, ok bool) {
	o.ok = ok
	if o.out != nil {
		*o.out = v
	}
	if o.okOut != nil {
		*o.okOut = ok
	}
}

func (o *recvOp[T]) poll() bool {
	v, ok, ready := o.c.recv(false)
	if ready {
		o.store(v, ok)
	}
	return ready
}

func (o *recvOp[T]) subscribe(g *concurrency.Group, id int) bool {
	v, ok, s, done := o.c.recvLocked(g)
	if done {
		if s != nil {
			var zero T
			s.Resolve(zero, true)
		}
		o.store(v, ok)
		return true
	}
	o.sel = concurrency.NewSelector[T](g, id, concurrency.DirRecv)
	o.c.st.Enqueue(o.sel)
	return false
}

func (o *recvOp[T]) unsubscribe() {
	o.c.st.Remove(o.sel)
}

func (o *recvOp[T]) commit(blocked bool) {
	if o.sel != nil {
		o.store(o.sel.Value, o.sel.OK)
	}
	if o.ok {
		o.c.metrics.ObserveRecv(o.c.label(), blocked)
	}
}
