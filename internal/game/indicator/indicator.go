// Package indicator renders player attributes and applies logged changes.
//
// Every stat change in the game goes through a Changer so that it reads the
// same way in the log: "(name) label: before -> after".
package indicator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

// Attr describes one player attribute.
type Attr struct {
	Label  string
	Render func(p *state.Player) string
	// IsDefault, when non-nil, suppresses the attribute from summaries.
	IsDefault func(p *state.Player) bool
}

var (
	Position = Attr{
		Label:  "現在地",
		Render: func(p *state.Player) string { return strconv.Itoa(p.Position) },
	}
	Turn = Attr{
		Label:  "ターン",
		Render: func(p *state.Player) string { return strconv.Itoa(p.Turn) },
	}
	Personality = Attr{
		Label:     "性格",
		Render:    func(p *state.Player) string { return p.Personality.Label() },
		IsDefault: func(p *state.Player) bool { return p.Personality == state.Gentle },
	}
	HP = Attr{
		Label:  "HP",
		Render: func(p *state.Player) string { return strconv.Itoa(p.HP) },
	}
	Weapon = Attr{
		Label:     "装備",
		Render:    func(p *state.Player) string { return p.Weapon },
		IsDefault: func(p *state.Player) bool { return p.Weapon == state.HandWeapon },
	}
	Dice = Attr{
		Label:     "ダイス",
		Render:    func(p *state.Player) string { return string(p.Dice) },
		IsDefault: func(p *state.Player) bool { return p.Dice == state.D6 },
	}
	Desire = Attr{
		Label:     "煩悩",
		Render:    func(p *state.Player) string { return strconv.Itoa(p.Desire) },
		IsDefault: func(p *state.Player) bool { return p.Desire == state.InitialDesire },
	}
	TurnSkip = Attr{
		Label:     "行動不能",
		Render:    func(p *state.Player) string { return strconv.Itoa(p.TurnSkip) },
		IsDefault: func(p *state.Player) bool { return p.TurnSkip == 0 },
	}
)

// TurnStart lists the attributes summarized at the start of every turn.
var TurnStart = []Attr{Position, Personality, HP, Weapon, Dice, Desire, TurnSkip}

// Stringify renders "(name) label: v / label: v", skipping default values.
func Stringify(p *state.Player, attrs []Attr) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a.IsDefault != nil && a.IsDefault(p) {
			continue
		}
		parts = append(parts, a.Label+": "+a.Render(p))
	}
	return fmt.Sprintf("(%s) %s", p.Name, strings.Join(parts, " / "))
}

// Changer binds an attribute to a mutation.
type Changer struct {
	Attr  Attr
	apply func(p *state.Player)
}

// Apply runs changers against p in order.
//
// Postcondition: returns "(name) label: before -> after / ...".
func Apply(p *state.Player, changers ...Changer) string {
	parts := make([]string, 0, len(changers))
	for _, c := range changers {
		before := c.Attr.Render(p)
		c.apply(p)
		after := c.Attr.Render(p)
		parts = append(parts, fmt.Sprintf("%s: %s -> %s", c.Attr.Label, before, after))
	}
	return fmt.Sprintf("(%s) %s", p.Name, strings.Join(parts, " / "))
}

// SetPosition moves the player.
//
// Precondition: 0 <= v <= state.GoalPosition.
func SetPosition(v int) Changer {
	if v < 0 || v > state.GoalPosition {
		panic(fmt.Sprintf("indicator: position %d out of range", v))
	}
	return Changer{Attr: Position, apply: func(p *state.Player) { p.Position = v }}
}

// SetHP sets hit points.
func SetHP(v int) Changer {
	return Changer{Attr: HP, apply: func(p *state.Player) { p.HP = v }}
}

// SetPersonality changes personality and marks the player as changed when
// the value actually differs.
func SetPersonality(v state.Personality) Changer {
	return Changer{Attr: Personality, apply: func(p *state.Player) {
		if p.Personality != v {
			p.PersonalityChanged = true
		}
		p.Personality = v
	}}
}

// SetWeapon equips a catalog weapon by name.
func SetWeapon(name string) Changer {
	return Changer{Attr: Weapon, apply: func(p *state.Player) { p.Weapon = name }}
}

// SetDice swaps the movement die.
func SetDice(k state.DiceKind) Changer {
	return Changer{Attr: Dice, apply: func(p *state.Player) { p.Dice = k }}
}

// SetDesire sets the desire counter.
func SetDesire(v int) Changer {
	return Changer{Attr: Desire, apply: func(p *state.Player) { p.Desire = v }}
}

// SetTurnSkip sets how many turns the player cannot move.
func SetTurnSkip(v int) Changer {
	return Changer{Attr: TurnSkip, apply: func(p *state.Player) { p.TurnSkip = v }}
}
