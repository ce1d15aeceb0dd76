// Package pidfile writes and checks the daemon's PID file.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrStale is returned by Acquire when a pidfile names a PID that is no
// longer running; the caller may remove it and retry.
var ErrStale = errors.New("pidfile: stale pid file")

// ErrRunning is returned by Acquire when a pidfile names a PID that is
// still alive.
var ErrRunning = errors.New("pidfile: another instance is already running")

// Acquire checks path for an existing, live PID and, if none is found,
// writes the current process's PID to it.
func Acquire(path string) error {
	if pid, err := read(path); err == nil {
		if alive(pid) {
			return fmt.Errorf("%w: pid %d (%s)", ErrRunning, pid, path)
		}
		return fmt.Errorf("%w: pid %d (%s)", ErrStale, pid, path)
	}
	return write(path, os.Getpid())
}

// Release removes the pidfile. It is a no-op if the file does not exist.
func Release(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("pidfile: malformed contents in %s: %w", path, err)
	}
	return pid, nil
}

func write(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644)
}
