package config

import (
	"errors"
	"testing"
)

func TestValidate_MissingSource(t *testing.T) {
	c := Default()
	c.Dests = []string{"/d"}
	if err := c.Validate(); !errors.Is(err, ErrSourceMissing) {
		t.Errorf("Validate() = %v, want ErrSourceMissing", err)
	}
}

func TestValidate_SourceNotDir(t *testing.T) {
	c := Default()
	c.Source = "/nonexistent/path/for/testing"
	c.Dests = []string{"/d"}
	if err := c.Validate(); !errors.Is(err, ErrSourceNotDir) {
		t.Errorf("Validate() = %v, want ErrSourceNotDir", err)
	}
}

func TestValidate_ZeroDestinationsIsDebugOnlyMode(t *testing.T) {
	c := Default()
	c.Source = t.TempDir()
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil (zero --to is the defined debug-only mode)", err)
	}
}

func TestValidate_DaemonRequiresAbsolutePaths(t *testing.T) {
	c := Default()
	c.Source = t.TempDir()
	c.Dests = []string{"relative/dest"}
	c.Daemon = true
	if err := c.Validate(); !errors.Is(err, ErrNotAbsolute) {
		t.Errorf("Validate() = %v, want ErrNotAbsolute", err)
	}
}

func TestValidate_DaemonAllowsRemoteSpec(t *testing.T) {
	c := Default()
	c.Source = t.TempDir()
	c.Dests = []string{"host:relative/dest"}
	c.Daemon = true
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for remote spec under --daemon", err)
	}
}

func TestValidate_NonDaemonAllowsRelativePaths(t *testing.T) {
	c := Default()
	c.Source = t.TempDir()
	c.Dests = []string{"relative/dest"}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil without --daemon", err)
	}
}

func TestValidate_InvalidThreshold(t *testing.T) {
	c := Default()
	c.Source = t.TempDir()
	c.Dests = []string{"/d"}
	c.Threshold = 0
	if err := c.Validate(); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("Validate() = %v, want ErrInvalidThreshold", err)
	}
}
