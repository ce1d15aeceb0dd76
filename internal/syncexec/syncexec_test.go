package syncexec

import (
	"strings"
	"testing"

	"github.com/hollis-vance/syncd/internal/plan"
)

func TestBuildArgs_LeafTouch(t *testing.T) {
	e := &Executor{cfg: Config{SourceRoot: "/s", Destinations: []string{"/d"}}}
	args, dest := e.buildArgs(plan.Action{Path: "/s/a.txt"}, "/d")
	want := []string{"-lptgoD", "--", "/s/a.txt", "/d"}
	if !equal(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
	if dest != "/d/a.txt" {
		t.Errorf("dest = %q, want /d/a.txt", dest)
	}
}

func TestBuildArgs_RecursiveNewDir(t *testing.T) {
	e := &Executor{cfg: Config{SourceRoot: "/s", Destinations: []string{"/d"}}}
	args, _ := e.buildArgs(plan.Action{Path: "/s/new", Recurse: true}, "/d")
	want := []string{"-lptgoD", "-r", "--", "/s/new/", "/d/new/"}
	if !equal(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildArgs_DeletePropagation(t *testing.T) {
	e := &Executor{cfg: Config{SourceRoot: "/s", Destinations: []string{"/d"}, Delete: true}}
	args, _ := e.buildArgs(plan.Action{Path: "/s", Recurse: true, Delete: true}, "/d")
	want := []string{"-lptgoD", "--delete", "-r", "--", "/s/", "/d/"}
	if !equal(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildArgs_DeleteNotGloballyEnabled(t *testing.T) {
	e := &Executor{cfg: Config{SourceRoot: "/s", Destinations: []string{"/d"}, Delete: false}}
	args, _ := e.buildArgs(plan.Action{Path: "/s", Recurse: true, Delete: true}, "/d")
	for _, a := range args {
		if a == "--delete" {
			t.Fatalf("--delete present despite Config.Delete=false: %v", args)
		}
	}
}

func TestBuildArgs_DebugAppendsVerbose(t *testing.T) {
	e := &Executor{cfg: Config{SourceRoot: "/s", Destinations: []string{"/d"}, Debug: true}}
	args, _ := e.buildArgs(plan.Action{Path: "/s/a.txt"}, "/d")
	if args[1] != "-v" {
		t.Errorf("args[1] = %q, want -v; args=%v", args[1], args)
	}
}

func TestBuildArgs_Excludes(t *testing.T) {
	e := &Executor{cfg: Config{SourceRoot: "/s", Destinations: []string{"/d"}, Excludes: []string{"*.tmp", ".git"}}}
	args, _ := e.buildArgs(plan.Action{Path: "/s/a.txt"}, "/d")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--exclude *.tmp") || !strings.Contains(joined, "--exclude .git") {
		t.Errorf("args missing excludes: %v", args)
	}
}

func TestBuildArgs_RemoteDestination(t *testing.T) {
	e := &Executor{cfg: Config{SourceRoot: "/s", Destinations: []string{"host:/d2"}}}
	args, dest := e.buildArgs(plan.Action{Path: "/s/a"}, "host:/d2")
	if dest != "host:/d2/a" {
		t.Errorf("dest = %q, want host:/d2/a", dest)
	}
	want := []string{"-lptgoD", "--", "/s/a", "host:/d2"}
	if !equal(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
