package turn

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/sugoroku/internal/game/combat"
	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

func names(ps []*state.Player) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return strings.Join(out, "と")
}

// share runs the co-location encounter for p and reports whether p was
// knocked out during it.
func share(g *play.Game, p *state.Player) (dead bool) {
	others := g.State.At(p.Position, p)
	if len(others) == 0 {
		return false
	}
	g.Section()
	g.Describe(fmt.Sprintf("マスには%sがいた。", names(others)), narration.Neutral)
	switch p.Personality {
	case state.Gentle:
		greetAll(g, p, others, greeting{
			action: "%sは%sに挨拶した。",
			opener: "こんにちは！",
			replies: map[state.Personality]string{
				state.Gentle:  "やあ",
				state.Violent: "おう",
				state.Phobic:  "こ、こんにちは……",
				state.Smart:   "おや奇遇だね",
			},
			closer: "心が温かくなった。",
		})
	case state.Smart:
		greetAll(g, p, others, greeting{
			action: "%sは%sに笑いかけた。",
			opener: "フッ……",
			replies: map[state.Personality]string{
				state.Gentle:  "や、やあ",
				state.Violent: "あ？",
				state.Phobic:  "ひいっ……",
				state.Smart:   "フフ……君も中々スマートだね",
			},
			closer: "人望が高まった。",
		})
	case state.Violent:
		return assault(g, p, others)
	case state.Phobic:
		return flee(g, p)
	}
	return false
}

type greeting struct {
	action  string
	opener  string
	replies map[state.Personality]string
	closer  string
}

func greetAll(g *play.Game, p *state.Player, others []*state.Player, gr greeting) {
	for _, o := range others {
		if o.Personality == state.Phobic && escape(g, o, p) {
			continue
		}
		g.Describe(fmt.Sprintf(gr.action, p.Name, o.Name), narration.Neutral)
		g.Say(gr.opener)
		g.Say(gr.replies[o.Personality])
		g.Describe(gr.closer, narration.Neutral)
	}
}

// escape moves a phobic player one space away from the newcomer.
//
// Postcondition: returns true only if phobic moved forward by exactly one.
func escape(g *play.Game, phobic, coming *state.Player) bool {
	if phobic.Position == state.GoalPosition {
		g.Describe(fmt.Sprintf("%sは%sを避けようとしたが、これ以上進めなかった。", phobic.Name, coming.Name), narration.Negative)
		return false
	}
	if ahead := g.State.At(phobic.Position+1, nil); len(ahead) > 0 {
		g.Describe(fmt.Sprintf("%sは%sを避けようとしたが、前に%sがいて進めなかった。", phobic.Name, coming.Name, ahead[0].Name), narration.Negative)
		g.EarnTrophy(phobic, "挟み撃ち")
		return false
	}
	g.Describe(fmt.Sprintf("%sは%sを嫌がって1マス進んだ。", phobic.Name, coming.Name), narration.Negative)
	g.Say("近い！")
	g.Change(phobic, narration.Positive, indicator.SetPosition(phobic.Position+1))
	return true
}

var counterLines = map[state.Personality]string{
	state.Violent: "何しやがる！",
	state.Phobic:  "来ないで！",
}

// assault has p strike every co-located player in order. A violent or
// phobic survivor strikes back; being knocked out by a counter ends the round.
func assault(g *play.Game, p *state.Player, others []*state.Player) bool {
	self := combat.NewPlayerBattler(p)
	for _, o := range others {
		if o.Personality == state.Phobic && escape(g, o, p) {
			continue
		}
		g.Say("邪魔だー！")
		target := combat.NewPlayerBattler(o)
		if combat.ResolveAttack(g, self, target, combat.AttackOptions{SkipAttackVoice: true}) {
			continue
		}
		line, counters := counterLines[o.Personality]
		if !counters {
			continue
		}
		g.Say(line)
		if combat.ResolveAttack(g, target, self, combat.AttackOptions{SkipAttackVoice: true}) {
			g.EarnTrophy(p, "因果応報")
			return true
		}
	}
	return false
}

// flee is the phobic newcomer's reaction: step forward or suffer.
func flee(g *play.Game, p *state.Player) bool {
	g.Say("ひっ")
	switch ahead := g.State.At(p.Position+1, nil); {
	case p.Position == state.GoalPosition:
		g.Describe(fmt.Sprintf("%sは先客を避けようとしたが、これ以上進めなかった。", p.Name), narration.Negative)
	case len(ahead) > 0:
		g.Describe(fmt.Sprintf("%sは先客を避けようとしたが、前に%sがいて進めなかった。", p.Name, ahead[0].Name), narration.Negative)
		g.EarnTrophy(p, "挟み撃ち")
	default:
		g.Describe(fmt.Sprintf("%sは先客を避けて1マス進んだ。", p.Name), narration.Negative)
		g.Change(p, narration.Positive, indicator.SetPosition(p.Position+1))
		return false
	}
	g.Describe(fmt.Sprintf("精神的な苦痛が%sを蝕んだ。", p.Name), narration.Negative)
	return combat.HitPlayer(g, p, 3, combat.HitOptions{DamageLine: "ううっ……"})
}
