// Package log provides the process-wide structured logger.
//
// The logger is backed by logrus with a prefixed console formatter and
// optional rotating file output. Components obtain scoped loggers via
// WithPrefix("s1ap"), WithPrefix("correlate"), and so on.
package log

import (
	"sync"
)

type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
}

var (
	mu     sync.RWMutex
	logger Logger = newDefaultAdapter()
)

// GetLogger returns the process-wide logger. Before Init is called it
// logs to stdout at info level.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithPrefix returns a logger scoped to a component prefix.
func WithPrefix(prefix string) Logger {
	return GetLogger().WithField("prefix", prefix)
}

// Init replaces the process-wide logger with one built from cfg.
func Init(cfg *Config) error {
	l, err := newAdapter(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}
