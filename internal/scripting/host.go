package scripting

import (
	"github.com/cory-johannsen/sugoroku/internal/game/combat"
	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"

	lua "github.com/yuin/gopher-lua"
)

// maxRollCount bounds roll(count, sides) so a script cannot flood the
// dice history.
const maxRollCount = 10

// host exposes one game to a script as the table passed to generate(game).
type host struct {
	g *play.Game
	p *state.Player

	// aborted holds a panic raised by the engine while a host function ran.
	// It is re-raised once the Lua stack has unwound.
	aborted any
}

// table builds the game table. Entries are plain functions: scripts call
// game.roll(1, 6), not game:roll(1, 6).
func (h *host) table(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	for name, fn := range map[string]lua.LGFunction{
		"description": h.description,
		"dialog":      h.dialog,
		"system":      h.system,
		"section":     h.section,
		"roll":        h.roll,
		"player":      h.player,
		"heal":        h.heal,
		"damage":      h.damage,
		"move":        h.move,
	} {
		t.RawSetString(name, L.NewFunction(fn))
	}
	return t
}

// engine runs fn, which may suspend on Emit. A panic from the engine is
// stashed and turned into a Lua error so the VM unwinds cleanly.
func (h *host) engine(L *lua.LState, fn func()) {
	if h.aborted != nil {
		L.RaiseError("game stopped")
	}
	defer func() {
		if r := recover(); r != nil {
			h.aborted = r
			L.RaiseError("game stopped")
		}
	}()
	fn()
}

func emotionArg(L *lua.LState, n int) narration.Emotion {
	switch e := narration.Emotion(L.OptString(n, string(narration.Neutral))); e {
	case narration.Positive, narration.Neutral, narration.Negative:
		return e
	default:
		L.ArgError(n, "emotion must be positive, neutral, or negative")
		return narration.Neutral
	}
}

func (h *host) description(L *lua.LState) int {
	text := L.CheckString(1)
	emotion := emotionArg(L, 2)
	h.engine(L, func() { h.g.Describe(text, emotion) })
	return 0
}

func (h *host) dialog(L *lua.LState) int {
	text := L.CheckString(1)
	h.engine(L, func() { h.g.Say(text) })
	return 0
}

func (h *host) system(L *lua.LState) int {
	text := L.CheckString(1)
	emotion := emotionArg(L, 2)
	h.engine(L, func() { h.g.System(text, emotion) })
	return 0
}

func (h *host) section(L *lua.LState) int {
	h.engine(L, h.g.Section)
	return 0
}

// roll(count, sides[, bonus]) rolls for the current player and returns the total.
func (h *host) roll(L *lua.LState) int {
	count := L.CheckInt(1)
	sides := L.CheckInt(2)
	bonus := L.OptInt(3, 0)
	if count < 1 || count > maxRollCount {
		L.ArgError(1, "count must be 1-10")
	}
	if sides < 1 {
		L.ArgError(2, "sides must be positive")
	}
	var total int
	h.engine(L, func() { total = h.g.RollDice(h.p.IsBot, count, sides, bonus) })
	L.Push(lua.LNumber(total))
	return 1
}

// player() returns a read-only snapshot of the current player.
func (h *host) player(L *lua.LState) int {
	p := h.p
	t := L.NewTable()
	t.RawSetString("name", lua.LString(p.Name))
	t.RawSetString("is_bot", lua.LBool(p.IsBot))
	t.RawSetString("turn", lua.LNumber(p.Turn))
	t.RawSetString("position", lua.LNumber(p.Position))
	t.RawSetString("hp", lua.LNumber(p.HP))
	t.RawSetString("personality", lua.LString(p.Personality))
	t.RawSetString("weapon", lua.LString(p.Weapon))
	t.RawSetString("dice", lua.LString(p.Dice))
	t.RawSetString("desire", lua.LNumber(p.Desire))
	L.Push(t)
	return 1
}

func (h *host) heal(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "heal amount must not be negative")
	}
	h.engine(L, func() { h.g.Change(h.p, narration.Positive, indicator.SetHP(h.p.HP+n)) })
	return 0
}

// damage(n) hurts the current player. Fainting carries them to a hospital.
func (h *host) damage(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "damage amount must not be negative")
	}
	h.engine(L, func() { combat.HitPlayer(h.g, h.p, n, combat.HitOptions{Unblockable: true}) })
	return 0
}

// move(n) moves the current player n spaces, clamped to the track. The
// destination's event does not run.
func (h *host) move(L *lua.LState) int {
	n := L.CheckInt(1)
	emotion := narration.Positive
	if n < 0 {
		emotion = narration.Negative
	}
	to := min(max(h.p.Position+n, 0), state.GoalPosition)
	h.engine(L, func() { h.g.Change(h.p, emotion, indicator.SetPosition(to)) })
	return 0
}
