// Package logging configures the logrus loggers shared by every wallfeed
// component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// EnvLevel overrides the configured level when set.
const EnvLevel = "WALLFEED_LOG_LEVEL"

// Options configure the root logger.
type Options struct {
	Level string
	JSON  bool
	// File receives log output when set. The terminal UI owns stdout and
	// stderr, so browse sessions always log to a file.
	File string
	// Output is used when File is empty. Nil means stderr.
	Output io.Writer
}

var (
	mu      sync.Mutex
	root    = newRoot()
	loggers = make(map[string]*logrus.Entry)
	logFile *os.File
)

func newRoot() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&TextFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Configure applies opts to the root logger. Component loggers created before
// or after the call share the new settings.
func Configure(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	levelStr := "info"
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		levelStr = env
	} else if strings.TrimSpace(opts.Level) != "" {
		levelStr = opts.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	root.SetLevel(level)

	if opts.JSON {
		root.SetFormatter(&logrus.JSONFormatter{})
	} else {
		root.SetFormatter(&TextFormatter{})
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		closeFileLocked()
		logFile = file
		root.SetOutput(file)
		return nil
	}

	closeFileLocked()
	if opts.Output != nil {
		root.SetOutput(opts.Output)
	} else {
		root.SetOutput(os.Stderr)
	}
	return nil
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()

	if logger, ok := loggers[component]; ok {
		return logger
	}
	entry := root.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Close releases the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	root.SetOutput(os.Stderr)
}

func closeFileLocked() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
