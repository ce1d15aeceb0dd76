package change

import (
	"context"
	"errors"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/hollis-vance/syncd/internal/ignore"
	"github.com/hollis-vance/syncd/internal/logging"
	"github.com/hollis-vance/syncd/internal/watch"
)

// careMask is the set of fsnotify operations the coalescer treats as
// interesting: close-after-write (approximated by Write, since fsnotify
// does not expose a distinct close-write event), move-in and create
// (both surface as fsnotify.Create), move-out (fsnotify.Rename), delete
// (fsnotify.Remove), and attribute change (fsnotify.Chmod).
const careMask = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename | fsnotify.Chmod

// ErrOverflow is returned by Drain when the kernel event queue overflowed
// and events between the last successfully delivered one and now may
// have been lost.
var ErrOverflow = errors.New("change: event queue overflowed")

// Coalescer drains a fsnotify.Watcher's event stream in bursts, filters
// by the ignore matcher and the care mask, and deposits survivors into a
// ChangeTree. It also drives watch.Manager growth and shrinkage as a
// side effect of processing create/delete events.
type Coalescer struct {
	fs      afero.Fs
	watcher *fsnotify.Watcher
	manager *watch.Manager
	matcher *ignore.Matcher
	log     *logging.Logger

	interval      time.Duration
	deleteEnabled bool
}

// New builds a Coalescer. interval is the quiescence threshold; a batch
// closes once interval elapses with no new events. deleteEnabled mirrors
// the --delete flag: when false, deletion events still drive watch
// teardown but contribute no ChangeTree marker.
func New(fs afero.Fs, watcher *fsnotify.Watcher, manager *watch.Manager, matcher *ignore.Matcher, log *logging.Logger, interval time.Duration, deleteEnabled bool) *Coalescer {
	return &Coalescer{
		fs:            fs,
		watcher:       watcher,
		manager:       manager,
		matcher:       matcher,
		log:           log,
		interval:      interval,
		deleteEnabled: deleteEnabled,
	}
}

// Drain blocks until at least one event arrives, then drains and folds
// events into a ChangeTree until a full interval passes with no new
// arrivals. It returns ErrOverflow if the watcher reports a queue
// overflow; internal/daemon treats this as a signal to re-run the
// initial full sync, and leaves the watch tree as it is.
func (c *Coalescer) Drain(ctx context.Context) (*Tree, error) {
	tree := NewTree(c.manager.Root())

	// Step 1: wait for the first event of the batch.
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return nil, errors.New("change: watcher closed")
			}
			c.process(tree, ev)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return nil, errors.New("change: watcher closed")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				return nil, ErrOverflow
			}
			c.log.Warn("watcher error: %v", err)
			continue
		}
		break
	}

	// Steps 2-4: keep draining until interval passes with no new events.
	timer := time.NewTimer(c.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return tree, ctx.Err()
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return tree, nil
			}
			c.process(tree, ev)
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(c.interval)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return tree, nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				return tree, ErrOverflow
			}
			c.log.Warn("watcher error: %v", err)
		case <-timer.C:
			return tree, nil
		}
	}
}

// process applies the per-event rules from the coalescer's design: skip
// ignored paths, determine is_mkdir and interesting, insert survivors
// into tree, and drive watch.Manager growth/shrinkage.
func (c *Coalescer) process(tree *Tree, ev fsnotify.Event) {
	path := ev.Name
	if c.matcher.IsIgnored(path) {
		return
	}

	isMkdir := ev.Op.Has(fsnotify.Create) && c.isDir(path)
	interesting := ev.Op&careMask != 0

	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		wasDir := c.manager.Watched(path)
		if c.deleteEnabled {
			tree.Mark(path, Deleted)
		}
		if wasDir {
			// The path recorded in the handle becomes stale the moment
			// it moves or disappears; tear it down immediately.
			c.manager.Unwatch(path)
		}
		return
	}

	if !isMkdir && !interesting {
		return
	}

	if isMkdir {
		if err := c.manager.Watch(path); err != nil {
			c.log.Warn("watch %s: %v", path, err)
		}
		tree.Mark(path, CreatedDir)
		return
	}

	tree.Insert(path)
}

func (c *Coalescer) isDir(path string) bool {
	info, err := c.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
