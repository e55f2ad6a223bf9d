// Package combat implements the turn-based attacker/blocker exchange used by
// sharing encounters and boss spaces.
package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
)

// Attacker is anything that can swing a weapon.
type Attacker interface {
	Name() string
	IsBot() bool
	Weapon() Weapon
	AttackVoice(g *play.Game)
}

// Blocker is anything that can take damage.
type Blocker interface {
	Name() string
	HP() int
	SetHP(hp int)
	// Smart blockers halve incoming damage, rounding up.
	Smart() bool
	DamageVoice(g *play.Game, beforeHP, damage int)
	KnockedOut(g *play.Game)
}

// Battler both attacks and blocks.
type Battler interface {
	Attacker
	Blocker
}

// Winner identifies which side of RunBattle survived.
type Winner int

const (
	First Winner = iota
	Second
)

// String returns "first" or "second".
func (w Winner) String() string {
	if w == First {
		return "first"
	}
	return "second"
}

// ResolveHit applies power to blocker.
//
// Postcondition: blocker hp decreased by the (possibly halved) damage; when
// it reaches <= 0 KnockedOut ran exactly once and the result is true.
func ResolveHit(g *play.Game, power int, blocker Blocker) bool {
	damage := power
	if blocker.Smart() {
		g.Describe("スマートな身のこなしがダメージを半減する。", narration.Positive)
		damage = int(math.Ceil(float64(power) / 2))
	}
	before := blocker.HP()
	after := before - damage
	blocker.SetHP(after)
	g.Describe(fmt.Sprintf("%sは%dダメージを受けた。", blocker.Name(), damage), narration.Negative)
	blocker.DamageVoice(g, before, damage)
	g.System(fmt.Sprintf("(%s) %s: %d -> %d", blocker.Name(), indicator.HP.Label, before, after), narration.Negative)
	if after <= 0 {
		blocker.KnockedOut(g)
		return true
	}
	return false
}

// AttackOptions tunes ResolveAttack.
type AttackOptions struct {
	SkipAttackVoice bool
}

// ResolveAttack swings attacker's weapon at blocker.
//
// Postcondition: a weapon returning power <= 0 is a miss and ResolveHit is
// not invoked.
func ResolveAttack(g *play.Game, attacker Attacker, blocker Blocker, opts AttackOptions) bool {
	if !opts.SkipAttackVoice {
		attacker.AttackVoice(g)
	}
	power := attacker.Weapon().Attack(g, attacker, blocker)
	if power <= 0 {
		return false
	}
	return ResolveHit(g, power, blocker)
}

// RunBattle alternates attacks, first then second, until one side is
// knocked out. There is no round cap.
func RunBattle(g *play.Game, first, second Battler) Winner {
	g.Section()
	g.System("<戦闘開始>", narration.Neutral)
	for {
		if ResolveAttack(g, first, second, AttackOptions{}) {
			return First
		}
		if ResolveAttack(g, second, first, AttackOptions{}) {
			return Second
		}
	}
}
