package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hollis-vance/syncd/internal/ignore"
)

// BindFlags registers every CLI flag from the flag table on cmd and binds
// each one through viper so SYNCD_-prefixed environment variables can
// override it without a config file.
func BindFlags(cmd *cobra.Command) {
	fs := cmd.Flags()

	fs.String("from", "", "source directory to watch")
	fs.StringArray("to", nil, "destination (repeatable); local path or host:path")
	fs.Bool("debug", false, "enable debug logging and -v on the transfer tool")
	fs.Bool("daemon", false, "run continuously instead of exiting after one sync")
	fs.Bool("syslog", false, "log to syslog instead of stderr (unix only)")
	fs.String("pidfile", "", "write the daemon's PID to this file")
	fs.Bool("dry", false, "log transfer commands without running them")
	fs.Bool("delete", false, "propagate deletions to destinations")
	fs.Bool("quiet", false, "suppress informational stdout/log output")
	fs.StringArray("ignore", nil, "extra ignore-rule pattern (repeatable)")
	fs.Bool("ignore-temp", false, "ignore common editor temp/autosave files")
	fs.Bool("ignore-dotfiles", false, "ignore dotfiles and dot-directories")
	fs.Bool("ignore-backups", false, "ignore common backup file suffixes")
	fs.Bool("ignore-logs", false, "ignore log files and log directories")
	fs.StringArray("rsync-exclude", nil, "transfer-tool --exclude pattern (repeatable)")
	fs.Duration("interval", 1*time.Second, "quiescence interval before a batch closes")
	fs.Int("full-sync-threshold", 10, "sibling count at or above which a directory syncs recursively")

	v := viper.New()
	v.SetEnvPrefix("syncd")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = v.BindPFlags(fs)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withViper(ctx, v))
}

// FromFlags builds a Config by reading flags bound with BindFlags,
// falling back to environment-variable overrides where a flag was not
// explicitly set on the command line.
func FromFlags(cmd *cobra.Command) (*Config, error) {
	v := viperFrom(cmd.Context())
	fs := cmd.Flags()

	cfg := Default()
	cfg.Source = v.GetString("from")
	cfg.Dests = v.GetStringSlice("to")
	cfg.Debug = v.GetBool("debug")
	cfg.Daemon = v.GetBool("daemon")
	cfg.Syslog = v.GetBool("syslog")
	// --syslog is implicit under --daemon unless the user explicitly
	// overrode it on the command line.
	if cfg.Daemon && !fs.Changed("syslog") {
		cfg.Syslog = true
	}
	cfg.PIDFile = v.GetString("pidfile")
	cfg.DryRun = v.GetBool("dry")
	cfg.Delete = v.GetBool("delete")
	cfg.Quiet = v.GetBool("quiet")
	cfg.IgnorePatterns = v.GetStringSlice("ignore")
	cfg.IgnorePresets = ignore.Presets{
		Temp:     v.GetBool("ignore-temp"),
		Dotfiles: v.GetBool("ignore-dotfiles"),
		Backups:  v.GetBool("ignore-backups"),
		Logs:     v.GetBool("ignore-logs"),
	}
	cfg.TransferExclude = v.GetStringSlice("rsync-exclude")
	cfg.Interval = v.GetDuration("interval")
	cfg.Threshold = v.GetInt("full-sync-threshold")

	// B3: interval=0 is a legal, explicit choice and must be preserved;
	// only fall back to the default when the flag was never touched and
	// viper produced a zero value on its own.
	if !fs.Changed("interval") && cfg.Interval == 0 {
		cfg.Interval = Default().Interval
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, cfg.Interval)
	}
	return cfg, nil
}
