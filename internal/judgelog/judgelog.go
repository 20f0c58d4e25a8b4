// Package judgelog provides small per-component loggers used across the
// sandbox, runner, and contest loader. Output is plain stdlib log, bracketed
// by component name, matching the rest of this codebase's ambient style.
package judgelog

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Verbose controls whether Debug/Trace messages are emitted. Enabled by the
// CLI's --verbose flag; off by default to keep judge runs quiet.
var Verbose atomic.Bool

// Logger prefixes every line with its component name, e.g. "[sandbox] ...".
type Logger struct {
	component string
	l         *log.Logger
}

// New returns a Logger for the given component, writing to stderr.
func New(component string) *Logger {
	return NewTo(component, os.Stderr)
}

// NewTo returns a Logger for the given component writing to w, primarily
// for tests that want to capture output.
func NewTo(component string, w io.Writer) *Logger {
	return &Logger{
		component: component,
		l:         log.New(w, "", log.LstdFlags),
	}
}

func (lg *Logger) printf(level, format string, args ...any) {
	lg.l.Printf("["+lg.component+"] "+level+": "+format, args...)
}

// Debug logs a debug-level message, gated by Verbose.
func (lg *Logger) Debug(format string, args ...any) {
	if Verbose.Load() {
		lg.printf("debug", format, args...)
	}
}

// Trace logs a trace-level message (per-test chatter), gated by Verbose.
func (lg *Logger) Trace(format string, args ...any) {
	if Verbose.Load() {
		lg.printf("trace", format, args...)
	}
}

// Warn logs a warning unconditionally.
func (lg *Logger) Warn(format string, args ...any) {
	lg.printf("warn", format, args...)
}

// Error logs an error unconditionally.
func (lg *Logger) Error(format string, args ...any) {
	lg.printf("error", format, args...)
}
