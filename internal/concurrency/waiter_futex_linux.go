//go:build linux
// +build linux

// File: internal/concurrency/waiter_futex_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux parking on the waiter state word with FUTEX_WAIT/FUTEX_WAKE.

package concurrency

import (
	"math"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexPrivateFlag = 128
	futexWaitPrivate = 0 | futexPrivateFlag
	futexWakePrivate = 1 | futexPrivateFlag
)

type parker struct{}

// park sleeps while *addr == val. EAGAIN and EINTR return to the caller,
// which re-checks the state.
func (parker) park(addr *uint32, val uint32) {
	unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWaitPrivate, uintptr(val), 0, 0, 0)
}

// unpark wakes every thread sleeping on addr.
func (parker) unpark(addr *uint32) {
	unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWakePrivate, uintptr(math.MaxInt32), 0, 0, 0)
}
