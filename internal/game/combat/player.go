package combat

import (
	"fmt"

	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

var (
	damageVoices = map[state.Personality]string{
		state.Gentle:  "痛っ",
		state.Violent: "グエッ！",
		state.Phobic:  "嫌あああ！",
		state.Smart:   "ぐはっ",
	}
	knockoutVoices = map[state.Personality]string{
		state.Gentle:  "うっ",
		state.Violent: "ゴハアッ",
		state.Phobic:  "呪ってやる……！",
		state.Smart:   "バカな……この僕が……",
	}
	attackVoices = map[state.Personality]string{
		state.Gentle:  "くらえー！",
		state.Violent: "オラー！",
		state.Phobic:  "消えて！",
		state.Smart:   "僕の力を見せてあげよう",
	}
)

// PlayerBattler is the Battler view of a player.
type PlayerBattler struct {
	P *state.Player
	// Unblockable disables smart mitigation.
	Unblockable bool
	// DamageLine, when set, replaces the personality damage voice.
	DamageLine string
}

// NewPlayerBattler wraps p.
func NewPlayerBattler(p *state.Player) *PlayerBattler {
	return &PlayerBattler{P: p}
}

func (b *PlayerBattler) Name() string   { return b.P.Name }
func (b *PlayerBattler) IsBot() bool    { return b.P.IsBot }
func (b *PlayerBattler) HP() int        { return b.P.HP }
func (b *PlayerBattler) SetHP(hp int)   { b.P.HP = hp }
func (b *PlayerBattler) Smart() bool    { return !b.Unblockable && b.P.Personality == state.Smart }
func (b *PlayerBattler) Weapon() Weapon { return MustLookup(b.P.Weapon) }

func (b *PlayerBattler) AttackVoice(g *play.Game) {
	g.Say(attackVoices[b.P.Personality])
}

func (b *PlayerBattler) DamageVoice(g *play.Game, beforeHP, damage int) {
	if b.DamageLine != "" {
		g.Say(b.DamageLine)
		return
	}
	g.Say(damageVoices[b.P.Personality])
}

func (b *PlayerBattler) KnockedOut(g *play.Game) {
	g.Say(knockoutVoices[b.P.Personality])
	ToHospital(g, b.P)
}

// HitOptions tunes HitPlayer.
type HitOptions struct {
	Unblockable bool
	DamageLine  string
}

// HitPlayer applies power to p outside of a battle, e.g. traps and self-damage.
func HitPlayer(g *play.Game, p *state.Player, power int, opts HitOptions) bool {
	return ResolveHit(g, power, &PlayerBattler{P: p, Unblockable: opts.Unblockable, DamageLine: opts.DamageLine})
}

// ToHospital carries a knocked-out player to the nearest hospital at or
// before their position and restores their hp.
//
// Postcondition: p.Position <= its previous value and p.HP == state.InitialHP.
func ToHospital(g *play.Game, p *state.Player) {
	g.Describe(fmt.Sprintf("%sは気絶した。", p.Name), narration.Negative)
	g.Describe(fmt.Sprintf("%sは最寄りの病院に運ばれた。", p.Name), narration.Neutral)
	g.Change(p, narration.Neutral,
		indicator.SetPosition(g.NearestHospital(p.Position)),
		indicator.SetHP(state.InitialHP),
	)
}
