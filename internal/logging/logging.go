// File: internal/logging/logging.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package logging wraps a process-wide logrus logger. Entries carry the
// caller position so faults raised deep in the channel core point at the
// user frame that triggered them.

package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields is an alias so callers do not import logrus directly.
type Fields = logrus.Fields

var (
	mu  sync.RWMutex
	std = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// L returns the shared logger.
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// SetLevel parses level ("trace", "debug", "info", "warn", "error") and applies it.
// Unknown levels fall back to warn and return an error.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		L().SetLevel(logrus.WarnLevel)
		return fmt.Errorf("logging: %w", err)
	}
	L().SetLevel(lvl)
	return nil
}

// Level returns the current level name.
func Level() string {
	return L().GetLevel().String()
}

// SetOutput redirects log output.
func SetOutput(out io.Writer) {
	L().SetOutput(out)
}

// Replace swaps the shared logger, returning the previous one. Tests use it
// to capture output.
func Replace(l *logrus.Logger) *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	old := std
	std = l
	return old
}

// WithFields returns an entry decorated with the caller position.
func WithFields(f Fields) *logrus.Entry {
	return decorate(2).WithFields(f)
}

// Component returns an entry tagged with a component name.
func Component(name string) *logrus.Entry {
	return decorate(2).WithField("component", name)
}

func decorate(skip int) *logrus.Entry {
	l := L()
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return logrus.NewEntry(l)
	}
	path := strings.Split(file, "/")
	if len(path) > 3 {
		path = path[len(path)-3:]
	}
	entry := l.WithField("position", fmt.Sprintf("%s:%d", strings.Join(path, "/"), line))
	if fn := runtime.FuncForPC(pc); fn != nil {
		entry = entry.WithField("func", fn.Name())
	}
	return entry
}
