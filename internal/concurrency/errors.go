// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import (
	"errors"

	"github.com/momentics/hioload-csp/api"
	"github.com/momentics/hioload-csp/internal/logging"
)

var (
	// ErrDoubleNotify indicates a Waiter was notified more than once
	ErrDoubleNotify = errors.New("concurrency: waiter notified twice")

	// ErrInconsistent indicates a waiter list or selector invariant was broken
	ErrInconsistent = errors.New("concurrency: waiter list inconsistency")

	// ErrBufferOverflow indicates a push past the channel capacity
	ErrBufferOverflow = errors.New("concurrency: buffer overflow")

	// ErrBufferUnderflow indicates a pop from an empty buffer
	ErrBufferUnderflow = errors.New("concurrency: buffer underflow")

	// ErrTooManyWaiters indicates the CAS backend ran out of waiter handles
	ErrTooManyWaiters = errors.New("concurrency: too many pending waiters")
)

// fault reports a broken internal invariant and aborts the caller.
func fault(err error, detail string) {
	e := api.Wrap(api.ErrCodeInternal, err)
	if detail != "" {
		e.WithContext("detail", detail)
	}
	logging.Component("concurrency").WithError(err).WithField("detail", detail).Error("internal fault")
	panic(e)
}
