// Package api
// Author: momentics
//
// Executor contract for parallel task dispatch on worker threads.

package api

// Executor abstracts parallel task execution.
type Executor interface {
	// Submit schedules task for execution, blocking while the queue is full.
	Submit(task func()) error

	// TrySubmit schedules task only if the queue has room.
	TrySubmit(task func()) (bool, error)

	// NumWorkers returns current number of worker threads.
	NumWorkers() int
}
