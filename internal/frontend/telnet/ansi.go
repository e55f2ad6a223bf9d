// Package telnet serves sugoroku games to telnet clients with ANSI color.
package telnet

import (
	"regexp"

	"github.com/cory-johannsen/sugoroku/internal/frontend/render"
)

// SGR sequences used by the palette.
const (
	Reset        = "\033[0m"
	Bold         = "\033[1m"
	Dim          = "\033[2m"
	Red          = "\033[31m"
	Green        = "\033[32m"
	Yellow       = "\033[33m"
	Cyan         = "\033[36m"
	BrightYellow = "\033[93m"
)

// Colorize wraps text in color and a reset.
func Colorize(color, text string) string {
	if text == "" {
		return ""
	}
	return color + text + Reset
}

// ANSI is the render.Style for color terminals.
type ANSI struct{}

var palette = map[render.Role]string{
	render.RolePositive: Green,
	render.RoleNegative: Red,
	render.RoleDim:      Dim,
	render.RoleDice:     Cyan,
	render.RoleTitle:    Bold + BrightYellow,
}

// Apply implements render.Style.
func (ANSI) Apply(r render.Role, text string) string {
	color, ok := palette[r]
	if !ok {
		return text
	}
	return Colorize(color, text)
}

var sgr = regexp.MustCompile("\033\\[[0-9;]*m")

// StripANSI removes SGR sequences.
func StripANSI(s string) string {
	return sgr.ReplaceAllString(s, "")
}
