// Package logging provides the leveled diagnostic output used by syncd.
//
// Four severities are supported: info, warning, debug, and crit, matching
// the severity vocabulary spec'd for syslog emission. Output can be routed
// to stderr, to a rotated log file (gopkg.in/natefinch/lumberjack.v2), or
// to the system syslog (unix only — see logging_unix.go/logging_windows.go).
package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the diagnostic sink used throughout syncd. Info output is
// suppressed when Quiet is set; Warn and Crit are never suppressed,
// matching the rule that startup diagnostics always reach stderr/syslog.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	dbg   *log.Logger
	crit  *log.Logger

	debugOn bool
	quiet   bool
}

const flags = log.LstdFlags

// New builds a Logger that writes to w (typically os.Stderr).
func New(w io.Writer, debugOn, quiet bool) *Logger {
	return &Logger{
		info:    log.New(w, "[info] ", flags),
		warn:    log.New(w, "[warning] ", flags),
		dbg:     log.New(w, "[debug] ", flags),
		crit:    log.New(w, "[crit] ", flags),
		debugOn: debugOn,
		quiet:   quiet,
	}
}

// NewRotating builds a Logger that writes to a size/age-rotated file at
// path, for use under --daemon when syslog is switched off with an
// explicit --syslog=false (--daemon alone implies syslog).
func NewRotating(path string, debugOn, quiet bool) *Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	return New(w, debugOn, quiet)
}

// Info logs an informational message. Suppressed when the Logger is quiet.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	l.info.Output(2, fmt.Sprintf(format, args...))
}

// Warn logs a recoverable runtime problem. Never suppressed.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Output(2, fmt.Sprintf(format, args...))
}

// Debug logs verbose tracing, active only when the Logger was built with
// debugOn set (the --debug flag).
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debugOn {
		return
	}
	l.dbg.Output(2, fmt.Sprintf(format, args...))
}

// Crit logs a critical condition, such as an event-queue overflow.
// Never suppressed.
func (l *Logger) Crit(format string, args ...interface{}) {
	l.crit.Output(2, fmt.Sprintf(format, args...))
}

// Default returns a Logger writing to stderr with the given flags, for
// use before a daemon's real Logger (syslog or rotated file) is set up.
func Default(debugOn, quiet bool) *Logger {
	return New(os.Stderr, debugOn, quiet)
}
