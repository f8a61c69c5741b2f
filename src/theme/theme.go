package theme

import "github.com/charmbracelet/lipgloss"

// Colors is a color theme
type Colors struct {
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	Error     lipgloss.Color
}

// Dark is the default theme
var Dark = Colors{
	Primary:   lipgloss.Color("#00ff00"),
	Accent:    lipgloss.Color("#5fafff"),
	Text:      lipgloss.Color("#ffffff"),
	TextMuted: lipgloss.Color("#808080"),
	Error:     lipgloss.Color("#ff5f5f"),
}

// Light suits light terminal backgrounds
var Light = Colors{
	Primary:   lipgloss.Color("#008700"),
	Accent:    lipgloss.Color("#005fd7"),
	Text:      lipgloss.Color("#000000"),
	TextMuted: lipgloss.Color("#6c6c6c"),
	Error:     lipgloss.Color("#d70000"),
}

// CurrentTheme is the active theme
var CurrentTheme = Dark

// SetTheme sets the current theme
func SetTheme(colors Colors) {
	CurrentTheme = colors
}

// ForStyle picks the theme matching a glamour style name.
func ForStyle(style string) Colors {
	if style == "light" {
		return Light
	}
	return Dark
}

// Styles are the lipgloss styles derived from a theme
type Styles struct {
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	Title          lipgloss.Style
	Active         lipgloss.Style
	Muted          lipgloss.Style
	Error          lipgloss.Style
}

// NewStyles builds styles for colors
func NewStyles(c Colors) Styles {
	return Styles{
		UserLabel:      lipgloss.NewStyle().Bold(true).Foreground(c.Accent),
		AssistantLabel: lipgloss.NewStyle().Bold(true).Foreground(c.Primary),
		Title:          lipgloss.NewStyle().Bold(true).Foreground(c.Text),
		Active:         lipgloss.NewStyle().Foreground(c.Primary),
		Muted:          lipgloss.NewStyle().Foreground(c.TextMuted),
		Error:          lipgloss.NewStyle().Foreground(c.Error),
	}
}
