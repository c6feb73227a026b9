package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/podhmo/buildgen/internal/diag"
)

const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	CmdStyle      = lipgloss.NewStyle().Foreground(colorHighlight)

	locationStyle = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Italic(true).Foreground(colorMuted)
)

// renderDiagnostics prints one "location: kind: message" line per
// diagnostic, followed by its hint.
func renderDiagnostics(w io.Writer, diags diag.List) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s: %s: %s\n", locationStyle.Render(d.Location()), ErrorStyle.Render(d.Kind.String()), d.Message)
		if d.Hint != "" {
			fmt.Fprintf(w, "\t%s %s\n", hintStyle.Render("hint:"), d.Hint)
		}
	}
}
