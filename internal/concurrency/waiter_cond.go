//go:build !linux
// +build !linux

// File: internal/concurrency/waiter_cond.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable parking for platforms without a futex.

package concurrency

import (
	"sync"
	"sync/atomic"
)

type parker struct {
	once sync.Once
	mu   sync.Mutex
	cond *sync.Cond
}

func (p *parker) init() {
	p.once.Do(func() { p.cond = sync.NewCond(&p.mu) })
}

func (p *parker) park(addr *uint32, val uint32) {
	p.init()
	p.mu.Lock()
	for atomic.LoadUint32(addr) == val {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

func (p *parker) unpark(addr *uint32) {
	p.init()
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}
