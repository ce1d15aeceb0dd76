// Package config resolves the agent's configuration from CLI flags and
// environment variables via cobra/viper, and validates it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hollis-vance/syncd/internal/ignore"
	"github.com/hollis-vance/syncd/internal/plan"
)

// Errors returned by Validate. Checked with errors.Is.
var (
	ErrSourceMissing    = errors.New("config: --from is required")
	ErrSourceNotDir     = errors.New("config: source is not a directory")
	ErrNotAbsolute      = errors.New("config: paths must be absolute when running as a daemon")
	ErrInvalidInterval  = errors.New("config: interval must be non-negative")
	ErrInvalidThreshold = errors.New("config: full-sync-threshold must be positive")
)

// Config is the fully resolved configuration for one run of the agent.
type Config struct {
	Source string
	Dests  []string

	Debug   bool
	Daemon  bool
	Syslog  bool
	PIDFile string
	DryRun  bool
	Delete  bool
	Quiet   bool

	IgnorePatterns  []string
	IgnorePresets   ignore.Presets
	TransferExclude []string

	Interval  time.Duration
	Threshold int

	Tool string
}

// Default returns a Config with the spec's default interval and
// threshold, and rsync as the transfer tool.
func Default() *Config {
	return &Config{
		Interval:  1 * time.Second,
		Threshold: plan.DefaultThreshold,
		Tool:      "rsync",
	}
}

// Validate checks the resolved configuration for internal consistency
// and, under --daemon, that source and destination paths are absolute.
// Zero destinations is a valid, defined operating mode (debug-only:
// the watch/coalesce/plan pipeline runs but nothing is transferred).
func (c *Config) Validate() error {
	if c.Source == "" {
		return ErrSourceMissing
	}
	info, err := os.Stat(c.Source)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceNotDir, c.Source)
	}
	if c.Interval < 0 {
		return ErrInvalidInterval
	}
	if c.Threshold <= 0 {
		return ErrInvalidThreshold
	}
	if c.Daemon {
		if !filepath.IsAbs(c.Source) {
			return fmt.Errorf("%w: %s", ErrNotAbsolute, c.Source)
		}
		for _, d := range c.Dests {
			if isLocalPath(d) && !filepath.IsAbs(d) {
				return fmt.Errorf("%w: %s", ErrNotAbsolute, d)
			}
		}
	}
	return nil
}

// isLocalPath reports whether dest is a local filesystem path rather
// than a host:path transfer spec, mirroring syncexec's remote detection.
func isLocalPath(dest string) bool {
	for i := 0; i < len(dest); i++ {
		switch dest[i] {
		case '/':
			return true
		case ':':
			return false
		}
	}
	return true
}
