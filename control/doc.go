// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, metrics and debug introspection for hioload-csp.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML configuration with snapshot reads and reload listeners
//   - Prometheus counters for channel and select activity
//   - Named debug probes (channel stats, platform facts)
package control
