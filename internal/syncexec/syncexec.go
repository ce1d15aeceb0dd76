// Package syncexec builds and runs the external transfer-tool invocations
// implied by a resolved set of plan.Action values.
package syncexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hollis-vance/syncd/internal/logging"
	"github.com/hollis-vance/syncd/internal/plan"
)

// preserveFlags mirrors symlinks, permissions, timestamps, group, owner,
// devices, and specials without enabling recursion implicitly.
const preserveFlags = "-lptgoD"

// Config controls how Executor builds and runs transfer-tool commands.
type Config struct {
	// Tool is the transfer binary name, e.g. "rsync".
	Tool string
	// SourceRoot is the root of the watched source tree.
	SourceRoot string
	// Destinations are one or more destination prefixes (local paths or
	// remote host:path specs), mapped onto per-action source suffixes.
	Destinations []string
	// Excludes are user-supplied --exclude patterns passed straight
	// through to the transfer tool.
	Excludes []string
	// Delete globally enables --delete for actions that request it.
	Delete bool
	// Debug appends -v to every invocation.
	Debug bool
	// DryRun logs the command that would run without executing it.
	DryRun bool
	// Timeout bounds each invocation; zero means no timeout.
	Timeout time.Duration
}

// Executor runs the external transfer tool for resolved actions.
type Executor struct {
	cfg Config
	log *logging.Logger
}

// New builds an Executor.
func New(cfg Config, log *logging.Logger) *Executor {
	return &Executor{cfg: cfg, log: log}
}

// DeletesEnabled reports whether the executor's config globally enables
// deletion propagation.
func (e *Executor) DeletesEnabled() bool {
	return e.cfg.Delete
}

// Run builds and runs one invocation per action per destination. A
// non-zero exit from the tool is logged and does not stop the loop.
func (e *Executor) Run(ctx context.Context, actions []plan.Action) {
	for _, a := range actions {
		for _, dest := range e.cfg.Destinations {
			e.runOne(ctx, a, dest)
		}
	}
}

func (e *Executor) runOne(ctx context.Context, a plan.Action, dest string) {
	args, destPath := e.buildArgs(a, dest)

	if e.cfg.DryRun {
		e.log.Info("dry-run: %s %s", e.cfg.Tool, strings.Join(args, " "))
		return
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if e.cfg.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	out, err := execTool(runCtx, e.cfg.Tool, args...)
	if err != nil {
		e.log.Warn("transfer %s -> %s failed: %v", a.Path, destPath, err)
		return
	}
	if e.cfg.Debug && len(out) > 0 {
		e.log.Debug("%s", strings.TrimSpace(string(out)))
	}
}

// buildArgs constructs the argument list per §4.5 and returns the
// destination path it computed, for logging.
func (e *Executor) buildArgs(a plan.Action, dest string) ([]string, string) {
	args := []string{preserveFlags}
	if e.cfg.Debug {
		args = append(args, "-v")
	}
	for _, pattern := range e.cfg.Excludes {
		args = append(args, "--exclude", pattern)
	}
	if a.Delete && e.cfg.Delete {
		args = append(args, "--delete")
	}

	destPath := mapDest(e.cfg.SourceRoot, a.Path, dest)

	if a.Recurse {
		args = append(args, "-r", "--", withTrailingSlash(a.Path), withTrailingSlash(destPath))
		return args, destPath
	}

	args = append(args, "--", a.Path, parentDir(destPath))
	return args, destPath
}

// mapDest maps the source-relative suffix of path onto the dest prefix.
func mapDest(sourceRoot, path, dest string) string {
	rel, err := filepath.Rel(sourceRoot, path)
	if err != nil || rel == "." {
		return dest
	}
	if isRemoteSpec(dest) {
		return dest + "/" + filepath.ToSlash(rel)
	}
	return filepath.Join(dest, rel)
}

// isRemoteSpec reports whether dest looks like a host:path transfer spec
// rather than a local filesystem path.
func isRemoteSpec(dest string) bool {
	colon := strings.IndexByte(dest, ':')
	if colon <= 0 {
		return false
	}
	return !strings.ContainsRune(dest[:colon], '/')
}

func withTrailingSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

func parentDir(p string) string {
	p = strings.TrimSuffix(p, "/")
	if isRemoteSpec(p) {
		colon := strings.IndexByte(p, ':')
		host, rest := p[:colon], p[colon+1:]
		return host + ":" + filepath.ToSlash(filepath.Dir(rest))
	}
	return filepath.Dir(p)
}

// execTool runs the transfer tool, folding stderr into the returned error.
func execTool(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
