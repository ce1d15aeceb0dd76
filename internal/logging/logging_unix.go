//go:build !windows

package logging

import (
	"log"
	"log/syslog"
)

// NewSyslog builds a Logger that routes each severity to the matching
// syslog priority (info/warning/debug/crit), for use under --daemon
// --syslog (or --daemon alone, which implies syslog).
func NewSyslog(tag string, debugOn, quiet bool) (*Logger, error) {
	info, err := syslog.NewLogger(syslog.LOG_INFO|syslog.LOG_DAEMON, 0)
	if err != nil {
		return nil, err
	}
	warn, err := syslog.NewLogger(syslog.LOG_WARNING|syslog.LOG_DAEMON, 0)
	if err != nil {
		return nil, err
	}
	dbg, err := syslog.NewLogger(syslog.LOG_DEBUG|syslog.LOG_DAEMON, 0)
	if err != nil {
		return nil, err
	}
	crit, err := syslog.NewLogger(syslog.LOG_CRIT|syslog.LOG_DAEMON, 0)
	if err != nil {
		return nil, err
	}
	return &Logger{
		info:    withPrefix(info, tag),
		warn:    withPrefix(warn, tag),
		dbg:     withPrefix(dbg, tag),
		crit:    withPrefix(crit, tag),
		debugOn: debugOn,
		quiet:   quiet,
	}, nil
}

func withPrefix(l *log.Logger, tag string) *log.Logger {
	l.SetPrefix("[" + tag + "] ")
	return l
}
