// File: thread/group.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import (
	"errors"
	"sync"
)

// Group spawns threads and joins them together. The zero value is ready
// to use.
type Group struct {
	mu      sync.Mutex
	handles []*Handle
}

// Go spawns fn as a member of the group.
func (g *Group) Go(fn func(), opts ...Option) *Handle {
	h := Spawn(fn, opts...)
	g.mu.Lock()
	g.handles = append(g.handles, h)
	g.mu.Unlock()
	return h
}

// Len returns the number of threads spawned through the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}

// Join waits for every member and returns their panics joined.
func (g *Group) Join() error {
	g.mu.Lock()
	handles := append([]*Handle(nil), g.handles...)
	g.mu.Unlock()

	var errs []error
	for _, h := range handles {
		if err := h.Join(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
