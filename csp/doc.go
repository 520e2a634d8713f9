// Package csp
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// CSP-style typed channels for real OS threads: blocking and non-blocking
// send/receive, close, and a fair multi-channel Select/Poll.
//
// A channel of capacity 0 is a rendezvous point; a positive capacity adds a
// bounded FIFO buffer. Sending on a closed channel and closing a channel
// twice are programming errors and panic with an *api.Error wrapping
// ErrSendOnClosed or ErrCloseOfClosed. Receiving from a closed, drained
// channel returns the zero value and ok == false.
//
// Two interchangeable backends implement every channel: BackendMutex (a
// mutex and intrusive waiter lists) and BackendCAS (a packed state word
// driven by compare-and-swap). The package default is BackendMutex, or
// BackendCAS when built with the csp_lockfree tag; WithBackend overrides it
// per channel.
package csp
