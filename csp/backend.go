// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package csp

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/momentics/hioload-csp/internal/concurrency"
)

// Backend selects the synchronization strategy of a channel.
type Backend int32

const (
	// BackendMutex guards the channel with a mutex and intrusive lists.
	BackendMutex Backend = iota
	// BackendCAS drives the channel through a packed compare-and-swap word.
	BackendCAS
)

func (b Backend) String() string {
	switch b {
	case BackendMutex:
		return "mutex"
	case BackendCAS:
		return "cas"
	default:
		return fmt.Sprintf("backend(%d)", int32(b))
	}
}

// ParseBackend maps a configuration name to a Backend. The empty string
// yields the compiled-in default.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return compiledBackend, nil
	case "mutex", "lock":
		return BackendMutex, nil
	case "cas", "lockfree", "lock-free":
		return BackendCAS, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

var defaultBackend atomic.Int32

func init() {
	defaultBackend.Store(int32(compiledBackend))
}

// DefaultBackend returns the backend used when New gets no WithBackend.
func DefaultBackend() Backend {
	return Backend(defaultBackend.Load())
}

// SetDefaultBackend changes the default for channels created afterwards.
func SetDefaultBackend(b Backend) {
	if b != BackendMutex && b != BackendCAS {
		misuse(ErrUnknownBackend, map[string]any{"backend": int32(b)})
	}
	defaultBackend.Store(int32(b))
}

func newState[T any](b Backend, capacity int) concurrency.State[T] {
	if b == BackendCAS {
		return concurrency.NewCASState[T](capacity)
	}
	return concurrency.NewMutexState[T](capacity)
}
