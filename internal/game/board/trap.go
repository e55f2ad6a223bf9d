package board

import (
	"fmt"

	"github.com/cory-johannsen/sugoroku/internal/game/combat"
	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

var (
	spikyFloor = play.Space{Name: "トゲ床", Generate: spikyFloorEvent}
	laboratory = play.Space{Name: "研究所", Generate: laboratoryEvent}
	pitfall    = play.Space{Name: "落とし穴", Generate: pitfallEvent}
)

const (
	spikeDamage = 4
	pitfallFall = 3
)

// spikyFloorEvent hurts the player. The voice line follows even a knockout.
func spikyFloorEvent(g *play.Game) {
	p := g.Current()
	g.Describe("床がトゲトゲになっている。", narration.Negative)
	g.Describe(fmt.Sprintf("%sは踏んでしまった。", p.Name), narration.Neutral)
	combat.HitPlayer(g, p, spikeDamage, combat.HitOptions{})
	g.Say(pick(p, map[state.Personality]string{
		state.Gentle:  "どうして……",
		state.Violent: "ふざけんな！",
		state.Phobic:  "もう嫌だ……",
		state.Smart:   "フッ……下手を打ったね",
	}))
}

// laboratoryEvent fits a jet engine (1d100) on the first visit and makes
// the player smart on the second.
func laboratoryEvent(g *play.Game) {
	p := g.Current()
	if p.Dice != state.D100 {
		g.Describe("研究所がある。", narration.Neutral)
		g.Say("ワシは人体改造研究所の所長じゃ。君の体も改造してあげよう")
		if p.Personality == state.Phobic {
			g.Say("絶対に嫌です")
			g.Describe(fmt.Sprintf("%sは研究所を後にした。", p.Name), narration.Positive)
			return
		}
		g.Say(pick(p, map[state.Personality]string{
			state.Gentle:  "お願いします",
			state.Violent: "おう頼むわ",
			state.Smart:   "よろしく頼むよ",
		}))
		g.Describe(fmt.Sprintf("%sは改造手術を受けた。", p.Name), narration.Neutral)
		g.Describe(fmt.Sprintf("%sにジェットエンジンが取り付けられた。", p.Name), narration.Negative)
		g.Change(p, narration.Negative, indicator.SetDice(state.D100))
		g.Say("ホッホッホ、これで君も高速移動できるぞい")
		g.Describe(fmt.Sprintf("%sは研究所から放り出された。", p.Name), narration.Neutral)
		return
	}

	g.Describe("人体改造研究所がある。", narration.Negative)
	g.Say("ホッホッホ、ジェットエンジンの調子はどうかね？")
	if p.Personality == state.Smart {
		g.Say("フッ……どうにか扱えそうだよ")
		g.Say("マジか")
		g.Describe(fmt.Sprintf("%sは研究所を後にした。", p.Name), narration.Neutral)
		return
	}
	g.Describe(fmt.Sprintf("%sは文句を言った。", p.Name), narration.Neutral)
	g.Say(pick(p, map[state.Personality]string{
		state.Gentle:  "ゴールで止まれないんですが",
		state.Violent: "ふざけんな！　全然制御できねえぞ!?",
		state.Phobic:  "よくも……よくも私の体を、こんな……！",
	}))
	g.Say("ならば脳にも改造が必要じゃな")
	g.Describe(fmt.Sprintf("%sは更に改造されてしまった。", p.Name), narration.Negative)
	g.Describe(fmt.Sprintf("%sの脳はスマートになった。", p.Name), narration.Positive)
	g.Change(p, narration.Positive, indicator.SetPersonality(state.Smart))
	g.Say("感謝します……ドクター……")
	g.EarnTrophy(p, "身も心も")
}

func pitfallEvent(g *play.Game) {
	p := g.Current()
	g.Describe("落とし穴だ！", narration.Negative)
	g.Describe(fmt.Sprintf("%sは%dマス戻った。", p.Name, pitfallFall), narration.Negative)
	g.Change(p, narration.Negative, indicator.SetPosition(forward(p, -pitfallFall)))
}
