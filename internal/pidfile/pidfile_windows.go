//go:build windows

package pidfile

import "os"

// alive reports whether pid names a running process. Windows has no
// null-signal equivalent to unix.Kill; os.FindProcess opens a handle to
// the process there and fails when no process has that PID, so a
// successful lookup is the probe.
func alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	proc.Release()
	return true
}
