// Package cli provides styled terminal output for the non-interactive
// commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	RustColor   = lipgloss.Color("#B7410E")
	AmberColor  = lipgloss.Color("#F2A541")
	RedColor    = lipgloss.Color("#E5484D")
	TealColor   = lipgloss.Color("#4ECDC4")
	SteelColor  = lipgloss.Color("#8DA9C4")
	MutedColor  = lipgloss.Color("#6B6B6B")
	BorderColor = lipgloss.Color("#3A3A3A")
)

var (
	// TitleStyle renders command headings.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(RustColor).MarginBottom(1)
	// BoldStyle renders labels.
	BoldStyle = lipgloss.NewStyle().Bold(true)
	// SubtleStyle renders secondary text such as URLs.
	SubtleStyle = lipgloss.NewStyle().Foreground(MutedColor)
	// BoxStyle frames a single classification result.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)
	// TableHeaderStyle underlines the guide table header.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(BorderColor)
	// TableCellStyle pads the level column.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)

	warningStyle = lipgloss.NewStyle().Foreground(AmberColor)
	errorStyle   = lipgloss.NewStyle().Foreground(RedColor)
	infoStyle    = lipgloss.NewStyle().Foreground(SteelColor)
)

// Icons.
const (
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	LensIcon    = "🔍"
)

// severityColors maps guide severities to badge colors, hottest first.
var severityColors = map[string]lipgloss.Color{
	"Severe":      RedColor,
	"Significant": RustColor,
	"Moderate":    AmberColor,
	"Light":       SteelColor,
	"Minimal":     TealColor,
}

// SeverityStyle returns the badge style for a guide severity name.
func SeverityStyle(severity string) lipgloss.Style {
	if c, ok := severityColors[severity]; ok {
		return lipgloss.NewStyle().Bold(true).Foreground(c)
	}
	return BoldStyle
}

// FormatError prefixes message with a cross.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a heading with the lens icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(LensIcon + " " + title)
}

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
