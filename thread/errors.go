// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for the thread package.

package thread

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed indicates a submit after Shutdown or Stop
	ErrPoolClosed = errors.New("thread: pool closed")

	// ErrNilTask indicates a nil task was submitted
	ErrNilTask = errors.New("thread: nil task")
)

// PanicError carries a panic recovered on a spawned thread.
type PanicError struct {
	Thread string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	name := e.Thread
	if name == "" {
		name = "thread"
	}
	return fmt.Sprintf("%s panicked: %v", name, e.Value)
}

// Unwrap exposes error panic values, so errors.Is sees through a recovered
// channel fault.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
