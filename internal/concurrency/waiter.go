// File: internal/concurrency/waiter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Waiter is the single-slot completion signal every blocking operation
// parks on. Parking is platform specific (futex on Linux, sync.Cond
// elsewhere); the state word is shared.

package concurrency

import (
	"runtime"
	"sync/atomic"
)

const (
	waiterIdle     uint32 = 0
	waiterNotified uint32 = 1
)

// spinBeforePark bounds the yields Wait performs before parking the thread.
const spinBeforePark = 16

// Waiter is a one-shot binary signal: at most one Notify, any number of
// Wait calls. The zero value is ready to use. A Waiter must not be copied
// after first use.
type Waiter struct {
	state uint32
	parker
}

// Notify releases every current and future Wait. A second Notify is a fault.
func (w *Waiter) Notify() {
	if !atomic.CompareAndSwapUint32(&w.state, waiterIdle, waiterNotified) {
		fault(ErrDoubleNotify, "")
	}
	w.unpark(&w.state)
}

// Notified reports whether Notify has happened.
func (w *Waiter) Notified() bool {
	return atomic.LoadUint32(&w.state) == waiterNotified
}

// Wait blocks the calling thread until Notify.
func (w *Waiter) Wait() {
	for i := 0; i < spinBeforePark; i++ {
		if w.Notified() {
			return
		}
		runtime.Gosched()
	}
	for !w.Notified() {
		w.park(&w.state, waiterIdle)
	}
}
