// Package watch maintains an in-memory Tree of directory watches
// covering the live subtree of a source directory, adding and removing
// kernel watches as directories are created and destroyed.
package watch

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/hollis-vance/syncd/internal/ignore"
	"github.com/hollis-vance/syncd/internal/logging"
)

// ErrNoWatches is returned by Watch when not a single directory could be
// registered. Callers performing the initial scan treat this as fatal;
// callers reacting to a single new directory may log and continue.
var ErrNoWatches = errors.New("watch: no watches could be established")

// Manager owns the kernel watch lifecycle for a source subtree. The
// underlying filesystem is accessed through an afero.Fs so the manager
// can be exercised against an in-memory filesystem in tests as well as
// the real OS filesystem in production.
type Manager struct {
	fs      afero.Fs
	watcher *fsnotify.Watcher
	matcher *ignore.Matcher
	log     *logging.Logger
	tree    *Tree
	root    string
}

// NewManager builds a Manager rooted at root. watcher is the live
// fsnotify.Watcher that kernel Add/Remove calls are issued against.
func NewManager(fs afero.Fs, watcher *fsnotify.Watcher, matcher *ignore.Matcher, log *logging.Logger, root string) *Manager {
	root = filepath.Clean(root)
	return &Manager{
		fs:      fs,
		watcher: watcher,
		matcher: matcher,
		log:     log,
		tree:    NewTree(root),
		root:    root,
	}
}

// Count returns the live watch count: the number of non-ignored
// directories under the source that currently hold a kernel watch.
func (m *Manager) Count() int { return m.tree.Count() }

// Watched reports whether path currently holds a kernel watch.
func (m *Manager) Watched(path string) bool { return m.tree.Has(filepath.Clean(path)) }

// Watch recursively walks path, registering a kernel watch for every
// directory encountered that does not match the ignore filter (path
// itself included). Per-directory registration failures are logged and
// skipped; the walk continues. If not a single watch could be
// registered, Watch returns ErrNoWatches.
func (m *Manager) Watch(path string) error {
	path = filepath.Clean(path)
	registered := 0

	err := afero.Walk(m.fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			m.log.Warn("watch: cannot stat %s: %v", p, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if m.matcher.IsIgnored(p) {
			return filepath.SkipDir
		}
		if err := m.watcher.Add(p); err != nil {
			m.log.Warn("watch: failed to watch %s: %v", p, err)
			return nil
		}
		m.tree.SetHandle(p, &Handle{path: p})
		registered++
		return nil
	})
	if err != nil {
		return err
	}
	if registered == 0 {
		return ErrNoWatches
	}
	return nil
}

// Unwatch cancels the watch on path and every descendant watch beneath
// it (post-order), then detaches the subtree. It is safe to call on a
// path that holds no watch (a no-op).
func (m *Manager) Unwatch(path string) {
	path = filepath.Clean(path)
	for _, p := range m.tree.Remove(path) {
		if err := m.watcher.Remove(p); err != nil {
			m.log.Debug("unwatch: remove %s: %v", p, err)
		}
	}
}

// Root returns the cleaned source root path this Manager watches.
func (m *Manager) Root() string { return m.root }
