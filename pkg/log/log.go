// Package log provides the logging facade used throughout gbcore. It wraps
// logrus so every component logs through the same structured formatter
// instead of reaching for fmt.Println.
package log

import "github.com/sirupsen/logrus"

// Logger is the logging surface components depend on. Keeping it as an
// interface (rather than *logrus.Logger directly) lets tests swap in a
// null implementation without dragging logrus into their imports.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// New returns a Logger backed by logrus, formatted for terminal output
// without timestamps (the host is expected to prefix its own).
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return l
}

// nullLogger discards everything. Useful for tests and headless embedding
// where the host doesn't want the core chattering to stderr.
type nullLogger struct{}

func (nullLogger) Infof(format string, args ...interface{})  {}
func (nullLogger) Errorf(format string, args ...interface{}) {}
func (nullLogger) Debugf(format string, args ...interface{}) {}

// NewNull returns a Logger that discards every message.
func NewNull() Logger {
	return nullLogger{}
}
