// Package isdlog is a minimal structured-logging seam for the solver
// packages. The corpus this module is grounded on never wraps the standard
// library's log package behind its own abstraction (the teacher's examples
// call log.Fatalf directly), so this stays on log.Logger rather than
// inventing a dependency the corpus gives no indication of.
package isdlog

import (
	"io"
	"log"
	"os"
)

// Level orders log severities from most to least verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled wrapper around *log.Logger. The zero value is not
// usable; construct one with New.
type Logger struct {
	std   *log.Logger
	level Level
}

// New constructs a Logger writing to w, filtering out any message below
// minLevel.
func New(w io.Writer, minLevel Level) *Logger {
	return &Logger{std: log.New(w, "", log.LstdFlags), level: minLevel}
}

// Default returns a Logger writing to os.Stderr at LevelInfo, the same
// default the teacher's examples fall back to implicitly via log.Fatalf.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

// Discard returns a Logger that drops every message, for tests and library
// callers that don't want solver diagnostics on stderr.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	l.std.Printf("["+level.String()+"] "+format, args...)
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warnf logs a warn-level message.
func (l *Logger) Warnf(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }
