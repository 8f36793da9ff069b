package styles

import (
	"catadder/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles defines the core UI styles
type Styles struct {
	App         lipgloss.Style
	Title       lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Frame       lipgloss.Style
	Directory   lipgloss.Style
	File        lipgloss.Style
	Cursor      lipgloss.Style
	Selected    lipgloss.Style
	OK          lipgloss.Style
	Error       lipgloss.Style
	Busy        lipgloss.Style
	Button      lipgloss.Style
	Disabled    lipgloss.Style
	Help        lipgloss.Style
}

// New builds the styles from the configured theme colors
func New(cfg *config.Config) Styles {
	if cfg == nil {
		cfg = config.New()
	}
	th := cfg.Theme
	primary := lipgloss.Color(th.Primary)

	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primary).
			Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 1),
		Frame: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(th.Border)),
		Directory: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Info)).
			Bold(true),
		File: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Emphasis)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Success)).
			Bold(true),
		OK: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Success)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Error)),
		Busy: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Warning)),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(th.Success)).
			Padding(0, 1),
		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Info)),
	}
}
