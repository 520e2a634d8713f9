// Package api
// Author: momentics
//
// Live introspection of channels and worker threads.

package api

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of every registered probe.
	DumpState() map[string]any

	// RegisterProbe registers a named probe, replacing any previous one.
	RegisterProbe(name string, fn func() any)

	// UnregisterProbe drops a probe; unknown names are ignored.
	UnregisterProbe(name string)
}
