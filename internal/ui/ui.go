// Package ui renders colored status output for interactive terminal
// sessions, and degrades to plain text everywhere else.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// styleRenderer always emits ANSI styling; whether to style at all is
// decided by each Render function's enabled argument (see Enabled).
var styleRenderer = func() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.ANSI)
	return r
}()

var (
	accentStyle = styleRenderer.NewStyle().Foreground(lipgloss.Color("6"))
	passStyle   = styleRenderer.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = styleRenderer.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle   = styleRenderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Enabled reports whether color output should be used: stdout must be a
// terminal, colors must not have been stripped by termenv's profile
// detection, and the caller must not have suppressed it (--quiet or
// --daemon).
func Enabled(quiet, daemon bool) bool {
	if quiet || daemon {
		return false
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}

// RenderAccent renders s in the accent color when enabled is true.
func RenderAccent(s string, enabled bool) string {
	return render(accentStyle, s, enabled)
}

// RenderPass renders s to indicate success.
func RenderPass(s string, enabled bool) string {
	return render(passStyle, s, enabled)
}

// RenderWarn renders s to indicate a warning.
func RenderWarn(s string, enabled bool) string {
	return render(warnStyle, s, enabled)
}

// RenderFail renders s to indicate failure.
func RenderFail(s string, enabled bool) string {
	return render(failStyle, s, enabled)
}

func render(style lipgloss.Style, s string, enabled bool) string {
	if !enabled {
		return s
	}
	return style.Render(s)
}
