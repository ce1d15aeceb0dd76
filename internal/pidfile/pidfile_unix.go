//go:build !windows

package pidfile

import "golang.org/x/sys/unix"

// alive reports whether pid names a running process, by sending the
// null signal and checking whether the kernel rejects it.
func alive(pid int) bool {
	err := unix.Kill(pid, 0)
	if err == nil {
		return true
	}
	return err == unix.EPERM
}
