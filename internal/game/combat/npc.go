package combat

import (
	"fmt"

	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
)

// NPC is a fixed enemy battler. Its hp lives behind a pointer so a boss can
// keep its wounds in GameState between visits.
type NPC struct {
	Label    string
	Bot      bool
	HPRef    *int
	WeaponID string
	IsSmart  bool
	// Optional voice lines. A nil AttackLine says nothing; a nil
	// KnockoutLine uses the default defeat narration.
	AttackLine   func(g *play.Game)
	DamageLine   func(g *play.Game, beforeHP, damage int)
	KnockoutLine func(g *play.Game)
}

// NewNPC returns an NPC with its own hp pool.
func NewNPC(label string, hp int, weapon string) *NPC {
	return &NPC{Label: label, Bot: true, HPRef: &hp, WeaponID: weapon}
}

func (n *NPC) Name() string   { return n.Label }
func (n *NPC) IsBot() bool    { return n.Bot }
func (n *NPC) HP() int        { return *n.HPRef }
func (n *NPC) SetHP(hp int)   { *n.HPRef = hp }
func (n *NPC) Smart() bool    { return n.IsSmart }
func (n *NPC) Weapon() Weapon { return MustLookup(n.WeaponID) }

func (n *NPC) AttackVoice(g *play.Game) {
	if n.AttackLine != nil {
		n.AttackLine(g)
	}
}

func (n *NPC) DamageVoice(g *play.Game, beforeHP, damage int) {
	if n.DamageLine != nil {
		n.DamageLine(g, beforeHP, damage)
	}
}

func (n *NPC) KnockedOut(g *play.Game) {
	if n.KnockoutLine != nil {
		n.KnockoutLine(g)
		return
	}
	DefaultKnockedOut(g, n.Label)
}

// DefaultKnockedOut narrates a plain defeat.
func DefaultKnockedOut(g *play.Game, name string) {
	g.Describe(fmt.Sprintf("%sは倒れた。", name), narration.Positive)
}

// Say returns a voice func that speaks line.
func Say(line string) func(g *play.Game) {
	return func(g *play.Game) { g.Say(line) }
}
