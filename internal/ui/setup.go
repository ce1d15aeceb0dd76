package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Setup is the answer to a first-run interactive prompt. It is never
// written to disk; the caller folds it into the process's in-memory
// config.Config for the lifetime of this run only.
type Setup struct {
	Destination string
	IgnoreTemp  bool
	IgnoreDot   bool
	IgnoreBack  bool
	IgnoreLogs  bool
}

// IsInteractive reports whether stdin is a terminal, i.e. whether
// PromptSetup can be offered at all.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptSetup asks an interactive TTY user for a destination and which
// ignore presets to enable, for the common case of running with no
// --to flag at all. Leaving Destination blank is a valid answer: it
// selects the debug-only mode, the same as passing no --to at all
// non-interactively.
func PromptSetup() (Setup, error) {
	if !IsInteractive() {
		return Setup{}, fmt.Errorf("ui: stdin is not a terminal")
	}

	var s Setup
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Destination").
				Description("Local path or host:path to sync to (leave blank for debug-only mode)").
				Value(&s.Destination),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Ignore editor temp/autosave files?").Value(&s.IgnoreTemp),
			huh.NewConfirm().Title("Ignore dotfiles?").Value(&s.IgnoreDot),
			huh.NewConfirm().Title("Ignore backup files?").Value(&s.IgnoreBack),
			huh.NewConfirm().Title("Ignore log files?").Value(&s.IgnoreLogs),
		),
	)
	if err := form.Run(); err != nil {
		return Setup{}, fmt.Errorf("ui: setup form: %w", err)
	}
	return s, nil
}
