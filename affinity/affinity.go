// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity of the calling OS thread.
// Platform-specific implementations live in build-tagged files.

package affinity

import "errors"

var (
	// ErrNotSupported is returned on platforms without thread affinity.
	ErrNotSupported = errors.New("affinity: not supported on this platform")
	// ErrInvalidCPU is returned for a negative or out-of-range CPU index.
	ErrInvalidCPU = errors.New("affinity: invalid cpu index")
)

// SetAffinity pins the calling OS thread to cpuID. The caller must have
// locked its goroutine to the thread (runtime.LockOSThread).
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return ErrInvalidCPU
	}
	return setAffinityPlatform(cpuID)
}

// Allowed lists the CPUs the calling thread may run on.
func Allowed() ([]int, error) {
	return allowedPlatform()
}
