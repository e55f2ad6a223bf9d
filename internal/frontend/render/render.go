// Package render formats narration logs as text lines for terminal frontends.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
)

// Role is the visual role of a fragment of text.
type Role int

const (
	RolePlain Role = iota
	RolePositive
	RoleNegative
	RoleDim
	RoleDice
	RoleTitle
)

// Style decorates text for one output medium.
type Style interface {
	Apply(r Role, text string) string
}

// Plain is a Style that leaves text untouched.
type Plain struct{}

// Apply implements Style.
func (Plain) Apply(_ Role, text string) string { return text }

// SectionRule is the line printed for a new section.
const SectionRule = "────────────────"

func emotionRole(e narration.Emotion) Role {
	switch e {
	case narration.Positive:
		return RolePositive
	case narration.Negative:
		return RoleNegative
	default:
		return RolePlain
	}
}

// Line formats l for display.
//
// Postcondition: the result contains no newline; a turn end renders as "".
func Line(l narration.Log, s Style) string {
	switch l.Kind {
	case narration.KindDescription:
		return s.Apply(emotionRole(l.Emotion), l.Text)
	case narration.KindDialog:
		return "「" + l.Text + "」"
	case narration.KindSystem:
		return "  " + s.Apply(emotionRole(l.Emotion), l.Text)
	case narration.KindNewSection:
		return s.Apply(RoleDim, SectionRule)
	case narration.KindDiceRollBefore:
		if l.IsBot {
			return s.Apply(RoleDim, l.Expression+" を振る")
		}
		return s.Apply(RoleDice, l.Expression+" を振る [Enter]")
	case narration.KindDiceRollAfter:
		return s.Apply(RoleDice, Roll(l))
	default:
		return ""
	}
}

// Roll formats a diceRollAfter log as "2d6+1 → 9 [4, 4]".
func Roll(l narration.Log) string {
	faces := make([]string, len(l.Details))
	for i, d := range l.Details {
		faces[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("%s → %d [%s]", l.Expression, l.Result, strings.Join(faces, ", "))
}

// WaitsForInput reports whether a frontend should pause for the human after l.
func WaitsForInput(l narration.Log) bool {
	return l.Kind == narration.KindDiceRollBefore && !l.IsBot
}

// Standings lists every player with position and HP, in seat order.
func Standings(st *state.GameState, s Style) []string {
	lines := make([]string, 0, len(st.Players))
	for i, p := range st.Players {
		mark := "  "
		if i == st.CurrentPlayerIndex {
			mark = "▶ "
		}
		where := fmt.Sprintf("%2dマス", p.Position)
		if p.Goaled {
			where = "ゴール"
		}
		line := fmt.Sprintf("%s%-6s %s HP%-3d %s %s", mark, p.Name, where, p.HP, p.Personality.Label(), p.Weapon)
		if p.IsBot {
			line = s.Apply(RoleDim, line)
		}
		lines = append(lines, line)
	}
	return lines
}

// Summary renders the game-over message and the trophies earned this game.
func Summary(message string, earned []state.EarnedTrophy, s Style) []string {
	lines := []string{s.Apply(RoleTitle, message)}
	for _, e := range earned {
		desc := ""
		if t, ok := trophy.Lookup(e.Name); ok {
			desc = " " + s.Apply(RoleDim, t.Description)
		}
		line := "🏆 " + e.Name + desc
		if e.FirstTime {
			line += " " + s.Apply(RolePositive, "NEW")
		}
		lines = append(lines, line)
	}
	return lines
}
