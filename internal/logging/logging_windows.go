//go:build windows

package logging

import "errors"

// NewSyslog is unavailable on Windows and always returns an error;
// cmd/syncd passes that error on, so --syslog (and --daemon, which
// implies it) fails at startup on this platform.
func NewSyslog(tag string, debugOn, quiet bool) (*Logger, error) {
	return nil, errors.New("syslog is not supported on windows")
}
