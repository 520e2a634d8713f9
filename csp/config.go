// File: csp/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Glue between control.Config and package-level channel defaults.

package csp

import (
	"github.com/momentics/hioload-csp/control"
	"github.com/momentics/hioload-csp/internal/logging"
)

// Configure applies the backend default and log level of cfg. Channels
// created before the call keep their backend.
func Configure(cfg control.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b, err := ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}
	SetDefaultBackend(b)
	if cfg.LogLevel != "" {
		if err := logging.SetLevel(cfg.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// Watch applies the current configuration of store and every reload after.
// Reloads that fail to apply are logged and skipped.
func Watch(store *control.ConfigStore) error {
	if err := Configure(store.Get()); err != nil {
		return err
	}
	store.OnReload(func(cfg control.Config) {
		if err := Configure(cfg); err != nil {
			logging.Component("csp").WithError(err).Warn("config reload not applied")
		}
	})
	return nil
}
