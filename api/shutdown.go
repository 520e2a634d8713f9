// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components owning worker threads.
type GracefulShutdown interface {
	// Shutdown stops accepting work, lets queued work finish and joins
	// every thread. Returns the first failure reported by a thread.
	Shutdown() error
}
