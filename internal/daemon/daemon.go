// Package daemon drives the agent's main loop: an initial full sync,
// then a repeating drain/plan/execute cycle over filesystem events.
//
// State machine: INIT -> INITIAL_SYNC -> WAIT -> DRAIN -> PLAN ->
// EXECUTE -> WAIT (loop) -> SHUTDOWN.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/hollis-vance/syncd/internal/change"
	"github.com/hollis-vance/syncd/internal/ignore"
	"github.com/hollis-vance/syncd/internal/logging"
	"github.com/hollis-vance/syncd/internal/plan"
	"github.com/hollis-vance/syncd/internal/syncexec"
	"github.com/hollis-vance/syncd/internal/watch"
)

// Config holds everything the daemon needs to run one or many sync
// cycles. Logger is required; a caller not wanting daemon-owned
// rotation or syslog should pass logging.Default(...).
type Config struct {
	Fs        afero.Fs
	Source    string
	Matcher   *ignore.Matcher
	Interval  time.Duration
	Threshold int
	Executor  *syncexec.Executor
	Logger    *logging.Logger
}

// Stats is a point-in-time snapshot of the daemon's activity, safe to
// read concurrently with Run via Daemon.Stats.
type Stats struct {
	WatchCount    int
	BatchesDrawn  int
	ActionsRun    int
	LastBatchAt   time.Time
	OverflowCount int
}

// Daemon owns the watch.Manager, change.Coalescer, and the run loop
// that ties the ignore, watch, change, plan, and syncexec packages
// together.
type Daemon struct {
	cfg     Config
	watcher *fsnotify.Watcher
	manager *watch.Manager
	coal    *change.Coalescer

	mu    sync.Mutex
	stats Stats
}

// New builds a Daemon and performs the initial recursive watch
// registration (the INIT state). It does not run the initial sync;
// call InitialSync for that.
func New(cfg Config) (*Daemon, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("daemon: create watcher: %w", err)
	}

	mgr := watch.NewManager(cfg.Fs, w, cfg.Matcher, cfg.Logger, cfg.Source)
	if err := mgr.Watch(cfg.Source); err != nil {
		w.Close()
		return nil, fmt.Errorf("daemon: initial watch: %w", err)
	}

	coal := change.New(cfg.Fs, w, mgr, cfg.Matcher, cfg.Logger, cfg.Interval, cfg.Delete())

	return &Daemon{cfg: cfg, watcher: w, manager: mgr, coal: coal}, nil
}

// Delete reports whether the executor propagates deletions. Exposed as
// a method on Config so Config stays a plain value type without an
// import cycle on syncexec.Config's own Delete field.
func (c Config) Delete() bool {
	if c.Executor == nil {
		return false
	}
	return c.Executor.DeletesEnabled()
}

// Close releases the underlying watcher.
func (d *Daemon) Close() error {
	return d.watcher.Close()
}

// Stats returns a snapshot of the daemon's counters.
func (d *Daemon) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.stats
	s.WatchCount = d.manager.Count()
	return s
}

// InitialSync performs a full, unconditional sync of the entire source
// tree to every destination: the INITIAL_SYNC state, and also the
// recovery path after a reported event-queue overflow.
func (d *Daemon) InitialSync(ctx context.Context) {
	d.cfg.Logger.Info("performing initial full sync of %s", d.cfg.Source)
	actions := []plan.Action{{Path: d.cfg.Source, Recurse: true, Delete: d.cfg.Delete()}}
	d.cfg.Executor.Run(ctx, actions)
	d.mu.Lock()
	d.stats.ActionsRun += len(actions)
	d.mu.Unlock()
}

// Run executes the WAIT -> DRAIN -> PLAN -> EXECUTE loop until ctx is
// cancelled. Callers typically run InitialSync once before Run.
func (d *Daemon) Run(ctx context.Context) error {
	for {
		tree, err := d.coal.Drain(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			if errors.Is(err, change.ErrOverflow) {
				d.mu.Lock()
				d.stats.OverflowCount++
				d.mu.Unlock()
				d.cfg.Logger.Crit("event queue overflowed, re-running full sync")
				d.InitialSync(ctx)
				continue
			}
			return fmt.Errorf("daemon: drain: %w", err)
		}
		if tree == nil || tree.Empty() {
			continue
		}

		d.mu.Lock()
		d.stats.BatchesDrawn++
		d.stats.LastBatchAt = time.Now()
		d.mu.Unlock()

		actions := plan.Build(tree, d.cfg.Threshold)
		actions = plan.Resolve(d.cfg.Fs, actions)
		if len(actions) == 0 {
			continue
		}

		d.cfg.Executor.Run(ctx, actions)
		d.mu.Lock()
		d.stats.ActionsRun += len(actions)
		d.mu.Unlock()
	}
}
