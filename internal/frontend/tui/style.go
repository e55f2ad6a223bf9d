package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cory-johannsen/sugoroku/internal/frontend/render"
)

// Palette is a render.Style backed by lipgloss.
type Palette map[render.Role]lipgloss.Style

// DefaultPalette is used by NewModel.
var DefaultPalette = Palette{
	render.RolePositive: lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787")),
	render.RoleNegative: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
	render.RoleDim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")),
	render.RoleDice:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7FF")).Bold(true),
	render.RoleTitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true),
}

// Apply implements render.Style.
func (p Palette) Apply(r render.Role, text string) string {
	if s, ok := p[r]; ok {
		return s.Render(text)
	}
	return text
}

var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)
