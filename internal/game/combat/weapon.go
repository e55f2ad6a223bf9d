package combat

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
)

// IllegalThreshold is the expected damage above which a weapon is illegal.
const IllegalThreshold = 10

// Weapon is an immutable catalog entry. Players refer to weapons by Name.
type Weapon struct {
	Name string
	// Expected is the mean power of one attack.
	Expected float64
	attack   func(g *play.Game, a Attacker, b Blocker) int
}

// Attack narrates one swing and returns its power. Power <= 0 is a miss.
func (w Weapon) Attack(g *play.Game, a Attacker, b Blocker) int {
	return w.attack(g, a, b)
}

// IsIllegal reports whether w exceeds the legal expected damage.
func (w Weapon) IsIllegal() bool {
	return w.Expected > IllegalThreshold
}

// rolled builds a weapon whose power is a dice roll. format receives the
// attacker and blocker names.
func rolled(name, format, expr string) Weapon {
	e := dice.MustParse(expr)
	return Weapon{
		Name:     name,
		Expected: e.Expected(),
		attack: func(g *play.Game, a Attacker, b Blocker) int {
			g.Describe(fmt.Sprintf(format, a.Name(), b.Name()), narration.Neutral)
			return g.Roll(a.IsBot(), e)
		},
	}
}

// fixed builds a weapon with constant power and no dice.
func fixed(name, format string, power int) Weapon {
	return Weapon{
		Name:     name,
		Expected: float64(power),
		attack: func(g *play.Game, a Attacker, b Blocker) int {
			g.Describe(fmt.Sprintf(format, a.Name(), b.Name()), narration.Neutral)
			return power
		},
	}
}

// hammer rolls 1d100 and only lands on doubles (11, 22, ... 99).
func hammer() Weapon {
	expected := 0.0
	for r := 11; r <= 99; r += 11 {
		expected += float64(r) / 100
	}
	return Weapon{
		Name:     "ハンマー",
		Expected: expected,
		attack: func(g *play.Game, a Attacker, b Blocker) int {
			g.Describe(fmt.Sprintf("%sはハンマーを振りかぶった。", a.Name()), narration.Neutral)
			r := g.RollDice(a.IsBot(), 1, 100, 0)
			if r < 100 && r%11 == 0 {
				g.Describe(fmt.Sprintf("ハンマーが%sを捉えた！", b.Name()), narration.Positive)
				return r
			}
			g.Describe("ハンマーは空を切った。", narration.Negative)
			return 0
		},
	}
}

// Catalog names.
const (
	Hand         = "素手"
	Stick        = "こん棒"
	Chikuwa      = "ちくわ"
	Knuckle      = "ナックル"
	MagicalStaff = "魔法の杖"
	Hammer       = "ハンマー"
	DarkSword    = "暗黒剣"
	Beam         = "ビーム"
	Gun          = "拳銃"
	NinjaStar    = "手裏剣"
	Lightning    = "雷霆"
	GoldenAxe    = "金の斧"
	Bite         = "噛みつき"
)

var catalog = map[string]Weapon{}

func init() {
	for _, w := range []Weapon{
		rolled(Hand, "%sは%sを殴った。", "1d6"),
		rolled(Stick, "%sは%sをこん棒で打った。", "1d10"),
		fixed(Chikuwa, "%sは%sをちくわで叩いた。", 1),
		rolled(Knuckle, "%sはナックルで%sを殴りつけた。", "1d6+3"),
		rolled(MagicalStaff, "%sは魔法の杖から%sに火の玉を放った。", "1d10+3"),
		hammer(),
		rolled(DarkSword, "%sは暗黒剣で%sを斬りつけた。", "3d6+2"),
		fixed(Beam, "%sは%sにビームを放った。", 20),
		rolled(Gun, "%sは%sに拳銃を発砲した。", "2d6+3"),
		rolled(NinjaStar, "%sは%sに手裏剣を投げた。", "3d4"),
		rolled(Lightning, "%sは%sに雷を落とした。", "1d20+10"),
		rolled(GoldenAxe, "%sは金の斧で%sに斬りかかった。", "2d6+2"),
		rolled(Bite, "%sは%sに噛みついた。", "2d6"),
	} {
		catalog[w.Name] = w
	}
}

// Lookup resolves a catalog name.
func Lookup(name string) (Weapon, bool) {
	w, ok := catalog[name]
	return w, ok
}

// MustLookup resolves a catalog name and panics when it is unknown.
//
// Precondition: name is a catalog name.
func MustLookup(name string) Weapon {
	w, ok := catalog[name]
	if !ok {
		panic(fmt.Sprintf("combat: unknown weapon %q", name))
	}
	return w
}

// Names returns every catalog name, sorted.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for n := range catalog {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
