// Package plan walks a change.Tree and produces a minimum,
// non-overlapping set of sync actions.
package plan

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/hollis-vance/syncd/internal/change"
)

// Action is a single synchronization instruction: sync path, recursing
// into its subtree or not, and propagating deletions or not.
type Action struct {
	Path    string
	Recurse bool
	Delete  bool
}

// DefaultThreshold is the sibling-count cutoff at or above which a
// directory is synced recursively instead of per-child.
const DefaultThreshold = 10

// Build walks tree and returns the list of sync actions it implies,
// sorted ascending by path. threshold <= 0 uses DefaultThreshold.
func Build(tree *change.Tree, threshold int) []Action {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	actions := walk(tree.Root, tree.Base, threshold)
	sort.Slice(actions, func(i, j int) bool { return actions[i].Path < actions[j].Path })
	return actions
}

func walk(n *change.Node, path string, threshold int) []Action {
	switch {
	case len(n.Children) == 0 && n.Marker == change.None:
		return []Action{{Path: path, Recurse: false, Delete: false}}

	case n.Marker == change.Deleted:
		// The object is gone; syncing its parent recursively with
		// deletion enabled propagates the removal.
		return []Action{{Path: filepath.Dir(path), Recurse: true, Delete: true}}

	case n.Marker == change.CreatedDir:
		// A race between directory creation and watch registration may
		// have dropped events for its descendants; recurse to be safe.
		return []Action{{Path: path, Recurse: true, Delete: false}}

	case len(n.Children) >= threshold:
		return []Action{{Path: path, Recurse: true, Delete: false}}
	}

	var actions []Action
	for name, child := range n.Children {
		actions = append(actions, walk(child, filepath.Join(path, name), threshold)...)
	}
	return actions
}

// Resolve applies the overlap-elimination and existence-recheck rules
// at execution time: actions must already be sorted ascending by path
// (as Build returns them). Any action whose path is itself, or a
// descendant of, an already-recursed action's path is dropped, and any
// action whose path no longer exists on fs is dropped silently.
func Resolve(fs afero.Fs, actions []Action) []Action {
	var recursed []string
	var out []Action
	for _, a := range actions {
		if underAny(recursed, a.Path) {
			continue
		}
		if _, err := fs.Stat(a.Path); err != nil {
			continue
		}
		out = append(out, a)
		if a.Recurse {
			recursed = append(recursed, a.Path)
		}
	}
	return out
}

func underAny(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if under(p, path) {
			return true
		}
	}
	return false
}

func under(prefix, path string) bool {
	rel, err := filepath.Rel(prefix, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !strings.HasPrefix(rel, "..")
}
