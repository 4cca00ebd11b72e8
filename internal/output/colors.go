package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Styles used across the CLI. Rendering degrades to plain text when stdout is
// not a terminal or the environment does not support color.
var (
	BranchStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	CurrentBranchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("77")).Bold(true)
	WarnStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	TipStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ErrorHeaderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func init() {
	if !colorEnabled() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

// ColorBranchName renders a branch name, highlighting the current branch
func ColorBranchName(name string, isCurrent bool) string {
	if isCurrent {
		return CurrentBranchStyle.Render(name)
	}
	return BranchStyle.Render(name)
}
