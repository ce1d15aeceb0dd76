// Command syncd watches a source directory tree and mirrors changes to
// one or more destinations using an external transfer tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	syncdaemon "github.com/hollis-vance/syncd/internal/daemon"
	"github.com/hollis-vance/syncd/internal/config"
	"github.com/hollis-vance/syncd/internal/ignore"
	"github.com/hollis-vance/syncd/internal/logging"
	"github.com/hollis-vance/syncd/internal/pidfile"
	"github.com/hollis-vance/syncd/internal/syncexec"
	"github.com/hollis-vance/syncd/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "syncd: %v\n", err)
		os.Exit(255)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syncd",
		Short: "Mirror a directory tree to one or more destinations",
		Long: `syncd watches a source directory tree for filesystem changes and
mirrors affected paths to one or more destinations with an external
transfer tool.

It has no on-disk state and no configuration file: everything is set
by flag or SYNCD_-prefixed environment variable.`,
		RunE: runSyncd,
	}
	config.BindFlags(cmd)
	return cmd
}

func runSyncd(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromFlags(cmd)
	if err != nil {
		return err
	}

	// Zero destinations is the defined debug-only mode (spec §6): the
	// watch/coalesce/plan pipeline still runs, just with no transfer
	// invocations. Only offer the interactive destination prompt when
	// there is a TTY to prompt on; a non-interactive run with no --to
	// proceeds straight into debug-only mode.
	if len(cfg.Dests) == 0 && ui.IsInteractive() {
		setup, err := ui.PromptSetup()
		if err != nil {
			return fmt.Errorf("interactive setup failed: %w", err)
		}
		if setup.Destination != "" {
			cfg.Dests = []string{setup.Destination}
		}
		cfg.IgnorePresets.Temp = cfg.IgnorePresets.Temp || setup.IgnoreTemp
		cfg.IgnorePresets.Dotfiles = cfg.IgnorePresets.Dotfiles || setup.IgnoreDot
		cfg.IgnorePresets.Backups = cfg.IgnorePresets.Backups || setup.IgnoreBack
		cfg.IgnorePresets.Logs = cfg.IgnorePresets.Logs || setup.IgnoreLogs
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// --debug forces --quiet off: debug output is meaningless if it
	// never reaches anywhere.
	if cfg.Debug {
		cfg.Quiet = false
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	if cfg.PIDFile != "" {
		if err := pidfile.Acquire(cfg.PIDFile); err != nil {
			return err
		}
		defer pidfile.Release(cfg.PIDFile)
	}

	matcher, err := ignore.New(cfg.IgnorePatterns, cfg.IgnorePresets)
	if err != nil {
		return fmt.Errorf("invalid ignore pattern: %w", err)
	}

	exec := syncexec.New(syncexec.Config{
		Tool:         cfg.Tool,
		SourceRoot:   cfg.Source,
		Destinations: cfg.Dests,
		Excludes:     cfg.TransferExclude,
		Delete:       cfg.Delete,
		Debug:        cfg.Debug,
		DryRun:       cfg.DryRun,
	}, log)

	d, err := syncdaemon.New(syncdaemon.Config{
		Fs:        afero.NewOsFs(),
		Source:    cfg.Source,
		Matcher:   matcher,
		Interval:  cfg.Interval,
		Threshold: cfg.Threshold,
		Executor:  exec,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !cfg.Quiet {
		enableColor := ui.Enabled(cfg.Quiet, cfg.Daemon)
		fmt.Printf("%s watching %s\n", ui.RenderAccent("syncd", enableColor), cfg.Source)
	}

	d.InitialSync(ctx)

	if !cfg.Daemon {
		return nil
	}

	if err := d.Run(ctx); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

// buildLogger picks the log sink per spec §6: syslog when requested (or
// implied by --daemon), a rotated log file when running as a daemon
// without syslog, and plain stderr otherwise.
func buildLogger(cfg *config.Config) (*logging.Logger, error) {
	if cfg.Syslog {
		return logging.NewSyslog("syncd", cfg.Debug, cfg.Quiet)
	}
	if cfg.Daemon {
		return logging.NewRotating(logFilePath(cfg), cfg.Debug, cfg.Quiet), nil
	}
	return logging.Default(cfg.Debug, cfg.Quiet), nil
}

// logFilePath picks a rotated-log location alongside the pidfile when
// one is configured, or in the system temp directory otherwise.
func logFilePath(cfg *config.Config) string {
	if cfg.PIDFile != "" {
		return filepath.Join(filepath.Dir(cfg.PIDFile), "syncd.log")
	}
	return filepath.Join(os.TempDir(), "syncd.log")
}
