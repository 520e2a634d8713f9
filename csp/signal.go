// File: csp/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Signal is the zero-payload broadcast used for "done" style shutdown.

package csp

import "sync"

// Signal fires once and releases every current and future waiter.
type Signal struct {
	ch   *Chan[struct{}]
	once sync.Once
}

// NewSignal creates an unfired signal.
func NewSignal(opts ...Option) *Signal {
	return &Signal{ch: New[struct{}](0, opts...)}
}

// Fire broadcasts the signal. Later calls are no-ops.
func (s *Signal) Fire() {
	s.once.Do(s.ch.Close)
}

// Wait blocks until Fire.
func (s *Signal) Wait() {
	s.ch.Recv()
}

// Fired reports whether Fire has happened.
func (s *Signal) Fired() bool {
	return s.ch.Closed()
}

// Chan exposes the underlying channel for use as a Recv select operand.
// It never carries values; receives complete only when the signal fires.
func (s *Signal) Chan() *Chan[struct{}] {
	return s.ch
}
