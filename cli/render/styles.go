package render

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	successColor = lipgloss.Color("#10B981") // Green
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	warnColor    = lipgloss.Color("#F59E0B") // Amber
)

var (
	// SuccessStyle for passed and ok values.
	SuccessStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	// ErrorStyle for failed and error values.
	ErrorStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	// MutedStyle for skipped values.
	MutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	// WarnStyle for partial outcomes.
	WarnStyle = lipgloss.NewStyle().Foreground(warnColor)
)

// styleStatus colors known status words. Other values pass through.
func (r *Renderer) styleStatus(s string) string {
	if r.noColor {
		return s
	}
	switch s {
	case "passed", "ok", "true":
		return SuccessStyle.Render(s)
	case "failed", "error":
		return ErrorStyle.Render(s)
	case "skipped":
		return MutedStyle.Render(s)
	case "incomplete":
		return WarnStyle.Render(s)
	default:
		return s
	}
}
