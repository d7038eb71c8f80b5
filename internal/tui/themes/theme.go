// Package themes holds the lipgloss styles used by the terminal UI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Code          lipgloss.Style
	Button        lipgloss.Style
	ButtonBusy    lipgloss.Style
	DropZone      lipgloss.Style
	DropZoneFocus lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
	Rust          lipgloss.Color
}

func build(t Theme, surface lipgloss.Color) Theme {
	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Foreground).
		MarginBottom(1)
	t.Subtitle = lipgloss.NewStyle().
		Foreground(t.Muted)
	t.Normal = lipgloss.NewStyle().
		Foreground(t.Foreground)
	t.Bold = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Foreground)
	t.Code = lipgloss.NewStyle().
		Background(surface).
		Foreground(t.Foreground).
		Padding(0, 1)
	t.Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Foreground).
		Background(t.Primary).
		Padding(0, 2)
	t.ButtonBusy = lipgloss.NewStyle().
		Foreground(t.Muted).
		Background(surface).
		Padding(0, 2)
	t.DropZone = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.DropZoneFocus = t.DropZone.
		BorderForeground(t.Primary)
	t.RoundedBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.StatusSuccess = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	t.StatusWarning = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	t.StatusError = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	t.StatusInfo = lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	t.StatusPending = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	return t
}

// Default is the default theme.
var Default = build(Theme{
	Primary:    lipgloss.Color("#3b82f6"),
	Secondary:  lipgloss.Color("#36d7b7"),
	Success:    lipgloss.Color("#10b981"),
	Warning:    lipgloss.Color("#f59e0b"),
	Error:      lipgloss.Color("#ef4444"),
	Info:       lipgloss.Color("#3b82f6"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),
	Rust:       lipgloss.Color("#b7410e"),
}, lipgloss.Color("#262626"))

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(Theme{
	Primary:    lipgloss.Color("#89b4fa"),
	Secondary:  lipgloss.Color("#94e2d5"),
	Success:    lipgloss.Color("#a6e3a1"),
	Warning:    lipgloss.Color("#f9e2af"),
	Error:      lipgloss.Color("#f38ba8"),
	Info:       lipgloss.Color("#89dceb"),
	Foreground: lipgloss.Color("#cdd6f4"),
	Border:     lipgloss.Color("#45475a"),
	Muted:      lipgloss.Color("#6c7086"),
	Rust:       lipgloss.Color("#fab387"),
}, lipgloss.Color("#313244"))

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// SeverityStyle returns the badge style for a guide severity name.
func (t Theme) SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case "Severe":
		return t.StatusError
	case "Significant":
		return lipgloss.NewStyle().Foreground(t.Rust).Bold(true)
	case "Moderate":
		return t.StatusWarning
	case "Light":
		return t.StatusInfo
	case "Minimal":
		return t.StatusSuccess
	default:
		return t.Bold
	}
}
