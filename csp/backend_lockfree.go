//go:build csp_lockfree
// +build csp_lockfree

package csp

const compiledBackend = BackendCAS
