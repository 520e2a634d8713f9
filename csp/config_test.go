package csp

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-csp/control"
	"github.com/momentics/hioload-csp/internal/logging"
)

func restoreDefaults(t *testing.T) {
	prevBackend := DefaultBackend()
	prevLevel := logging.Level()
	t.Cleanup(func() {
		SetDefaultBackend(prevBackend)
		_ = logging.SetLevel(prevLevel)
	})
}

func TestParseBackend(t *testing.T) {
	cases := map[string]Backend{
		"mutex":     BackendMutex,
		"LOCK":      BackendMutex,
		"cas":       BackendCAS,
		" lockfree": BackendCAS,
		"lock-free": BackendCAS,
	}
	for in, want := range cases {
		got, err := ParseBackend(in)
		if err != nil || got != want {
			t.Errorf("ParseBackend(%q) = %v,%v want %v", in, got, err, want)
		}
	}
	if got, err := ParseBackend(""); err != nil || got != compiledBackend {
		t.Errorf("ParseBackend(\"\") = %v,%v", got, err)
	}
	if _, err := ParseBackend("spin"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("ParseBackend(spin) error = %v", err)
	}
}

func TestConfigure(t *testing.T) {
	restoreDefaults(t)
	cfg := control.DefaultConfig()
	cfg.Backend = "cas"
	cfg.LogLevel = "debug"
	if err := Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if DefaultBackend() != BackendCAS {
		t.Fatalf("DefaultBackend() = %v", DefaultBackend())
	}
	if logging.Level() != "debug" {
		t.Fatalf("log level = %s", logging.Level())
	}
	if c := New[int](0); c.Backend() != BackendCAS {
		t.Fatalf("new channel backend = %v", c.Backend())
	}

	cfg.Backend = "bogus"
	if err := Configure(cfg); !errors.Is(err, control.ErrInvalidConfig) {
		t.Fatalf("Configure(bogus) = %v", err)
	}
}

func TestWatch(t *testing.T) {
	restoreDefaults(t)
	store := control.NewConfigStore(control.Config{Backend: "mutex", LogLevel: "warn"})
	if err := Watch(store); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if DefaultBackend() != BackendMutex {
		t.Fatalf("DefaultBackend() = %v after Watch", DefaultBackend())
	}
	if err := store.Set(control.Config{Backend: "cas", LogLevel: "warn"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if DefaultBackend() != BackendCAS {
		t.Fatalf("DefaultBackend() = %v after reload", DefaultBackend())
	}
}

func TestSetDefaultBackend_Unknown(t *testing.T) {
	expectMisuse(t, ErrUnknownBackend, func() { SetDefaultBackend(Backend(-1)) })
}
