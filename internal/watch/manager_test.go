package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/hollis-vance/syncd/internal/ignore"
	"github.com/hollis-vance/syncd/internal/logging"
)

func newTestManager(t *testing.T, root string, matcher *ignore.Matcher) (*Manager, *fsnotify.Watcher) {
	t.Helper()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("fsnotify.NewWatcher() failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	if matcher == nil {
		matcher, _ = ignore.New(nil, ignore.Presets{})
	}
	log := logging.Default(false, true)
	return NewManager(afero.NewOsFs(), w, matcher, log, root), w
}

func TestManager_WatchRecursive(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a", "b"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	m, _ := newTestManager(t, root, nil)
	if err := m.Watch(root); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	if got := m.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3 (root, a, a/b)", got)
	}
	if !m.Watched(root) || !m.Watched(filepath.Join(root, "a")) || !m.Watched(filepath.Join(root, "a", "b")) {
		t.Error("expected root, a, and a/b to all be watched")
	}
}

func TestManager_WatchSkipsIgnored(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	matcher, _ := ignore.New(nil, ignore.Presets{Dotfiles: true})
	m, _ := newTestManager(t, root, matcher)
	if err := m.Watch(root); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	if m.Watched(filepath.Join(root, ".git")) {
		t.Error(".git should not be watched")
	}
	if m.Watched(filepath.Join(root, ".git", "objects")) {
		t.Error(".git/objects should not be watched")
	}
	if !m.Watched(filepath.Join(root, "src")) {
		t.Error("src should be watched")
	}
}

func TestManager_UnwatchRemovesSubtree(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a", "b"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	m, _ := newTestManager(t, root, nil)
	if err := m.Watch(root); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	before := m.Count()

	m.Unwatch(filepath.Join(root, "a"))
	if m.Watched(filepath.Join(root, "a")) || m.Watched(filepath.Join(root, "a", "b")) {
		t.Error("expected a and a/b to be unwatched")
	}
	if m.Count() != before-2 {
		t.Errorf("Count() = %d, want %d", m.Count(), before-2)
	}
	if !m.Watched(root) {
		t.Error("root watch should be unaffected")
	}
}

func TestManager_WatchEmptyDirIgnoredYieldsNoWatches(t *testing.T) {
	root := t.TempDir()
	matcher, _ := ignore.New([]string{`^.+$`}, ignore.Presets{}) // ignore everything
	m, _ := newTestManager(t, root, matcher)

	if err := m.Watch(root); err != ErrNoWatches {
		t.Fatalf("Watch() = %v, want ErrNoWatches", err)
	}
}
