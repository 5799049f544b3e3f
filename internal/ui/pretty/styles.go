// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Per-file outcome styles
	Written   lipgloss.Style
	Unchanged lipgloss.Style
	Failed    lipgloss.Style

	// File components
	FilePath lipgloss.Style
	Message  lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Written:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Unchanged: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		FilePath: lipgloss.NewStyle().Bold(true),
		Message:  lipgloss.NewStyle(),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Written:      plain,
		Unchanged:    plain,
		Failed:       plain,
		FilePath:     plain,
		Message:      plain,
		SummaryTitle: plain,
		SummaryValue: plain,
		Success:      plain,
		Failure:      plain,
		Dim:          plain,
		Bold:         plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		// Check if output is a TTY
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
