// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Runtime configuration: YAML loading, validation and a thread-safe store
// with reload listeners.

package control

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/momentics/hioload-csp/internal/logging"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("control: invalid config")

// Config drives channel defaults and the worker pool.
type Config struct {
	// Backend is the default channel backend: "mutex", "cas" or empty for
	// the compiled-in default.
	Backend string `yaml:"backend"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
	// Workers is the worker thread count of a pool; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// QueueDepth is the task channel capacity of a pool.
	QueueDepth int `yaml:"queue_depth"`
	// PinThreads pins pool workers to CPUs round-robin.
	PinThreads bool `yaml:"pin_threads"`
	// Metrics enables prometheus counters for channels built from config.
	Metrics bool `yaml:"metrics"`
}

// DefaultConfig returns the configuration used when nothing is loaded.
func DefaultConfig() Config {
	return Config{
		LogLevel:   "warn",
		QueueDepth: 64,
	}
}

// Validate checks field ranges and names.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case "", "mutex", "lock", "cas", "lockfree", "lock-free":
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	if c.QueueDepth < 0 {
		return fmt.Errorf("%w: queue_depth %d", ErrInvalidConfig, c.QueueDepth)
	}
	return nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ConfigStore holds the active configuration and notifies listeners on change.
type ConfigStore struct {
	mu        sync.RWMutex
	config    Config
	listeners []func(Config)
}

// NewConfigStore initializes a store with cfg.
func NewConfigStore(cfg Config) *ConfigStore {
	return &ConfigStore{config: cfg}
}

// Get returns the current configuration.
func (cs *ConfigStore) Get() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// Set validates and installs cfg, then runs every listener synchronously
// in registration order.
func (cs *ConfigStore) Set(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cs.mu.Lock()
	cs.config = cfg
	listeners := append([]func(Config){}, cs.listeners...)
	cs.mu.Unlock()

	logging.Component("control").WithField("backend", cfg.Backend).Info("configuration applied")
	for _, fn := range listeners {
		fn(cfg)
	}
	return nil
}

// Reload loads path and installs it.
func (cs *ConfigStore) Reload(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	return cs.Set(cfg)
}

// OnReload registers a listener called with every new configuration.
func (cs *ConfigStore) OnReload(fn func(Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
