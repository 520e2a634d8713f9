// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for the csp package.

package csp

import (
	"errors"

	"github.com/momentics/hioload-csp/api"
	"github.com/momentics/hioload-csp/internal/logging"
)

var (
	// ErrSendOnClosed indicates a send on a channel that is or became closed
	ErrSendOnClosed = errors.New("csp: send on closed channel")

	// ErrCloseOfClosed indicates a second Close
	ErrCloseOfClosed = errors.New("csp: close of closed channel")

	// ErrEmptySelect indicates a blocking Select without usable operands
	ErrEmptySelect = errors.New("csp: select with no operands")

	// ErrNegativeCapacity indicates New was given a capacity below zero
	ErrNegativeCapacity = errors.New("csp: negative channel capacity")

	// ErrUnknownBackend indicates an unrecognized backend name
	ErrUnknownBackend = errors.New("csp: unknown backend")
)

// misuse reports a programming defect and aborts the caller's control flow.
func misuse(err error, fields logging.Fields) {
	e := api.Wrap(api.ErrCodeMisuse, err)
	for k, v := range fields {
		e.WithContext(k, v)
	}
	logging.WithFields(fields).WithError(err).Error("channel misuse")
	panic(e)
}

func internalFault(detail string) {
	e := api.NewError(api.ErrCodeInternal, "csp: "+detail)
	logging.Component("csp").Error(e.Message)
	panic(e)
}
