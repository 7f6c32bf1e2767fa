package vfs

import "log"

// Logger receives the engine's diagnostics. The four levels mirror the
// severities the engine distinguishes: rejected paths are errors or
// warnings, committed state changes are informational, everything else is
// debug noise.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything. It is the default for sessions opened
// without WithLogger.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// NewStdLogger adapts a standard library logger. A nil argument uses
// log.Default.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l}
}

type stdLogger struct {
	l *log.Logger
}

func (s stdLogger) Debugf(format string, args ...interface{}) { s.l.Printf("DEBUG "+format, args...) }
func (s stdLogger) Infof(format string, args ...interface{})  { s.l.Printf("INFO "+format, args...) }
func (s stdLogger) Warnf(format string, args ...interface{})  { s.l.Printf("WARN "+format, args...) }
func (s stdLogger) Errorf(format string, args ...interface{}) { s.l.Printf("ERROR "+format, args...) }
