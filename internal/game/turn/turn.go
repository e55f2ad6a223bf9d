// Package turn runs one player's turn: status check, movement, co-location,
// the space event, and goal detection.
package turn

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/sugoroku/internal/game/combat"
	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
)

// Result reports how a turn ended.
type Result struct {
	// Skipped is true when no turn-end marker should follow: the player had
	// already finished, or the game ended.
	Skipped bool
	// GameOver holds the shareable summary once the human reaches the goal.
	GameOver string
}

// Over reports whether the game ended this turn.
func (r Result) Over() bool { return r.GameOver != "" }

// movement is what the dice step decided.
type movement struct {
	landed      int
	smartDamage int
}

// Run plays the current player's turn.
//
// Postcondition: every player position stays within 0..GoalPosition.
func Run(g *play.Game) Result {
	st := g.State
	p := st.CurrentPlayer()
	if p.Goaled {
		return Result{Skipped: true}
	}

	p.Turn++
	st.CameraStart = p.Position
	st.CameraPlayerIndex = st.CurrentPlayerIndex

	g.Describe(fmt.Sprintf("%sのターン%d。", p.Name, p.Turn), narration.Neutral)
	g.Attrs(p, indicator.TurnStart)

	if p.TurnSkip > 0 {
		g.Section()
		g.Describe(fmt.Sprintf("%sは動けない。", p.Name), narration.Negative)
		g.Change(p, narration.Negative, indicator.SetTurnSkip(p.TurnSkip-1))
		return Result{}
	}
	g.Say(Hello(st))

	mv := move(g, p)

	dead := false
	if mv.smartDamage > 0 {
		g.Describe("急停止が体に負担をかけた！", narration.Negative)
		dead = combat.HitPlayer(g, p, mv.smartDamage, combat.HitOptions{Unblockable: true, DamageLine: "ぐはっ"})
	}
	if !dead {
		dead = share(g, p)
	}
	if !dead {
		if p.Position == 1 && p.Turn == 1 && !p.IsBot {
			g.Section()
			g.Say("1マスしか進めなかった")
			g.EarnTrophy(p, "腰が重い")
		}
		if s, ok := g.Board.Space(p.Position); ok && s.Generate != nil {
			g.Section()
			s.Generate(g)
		}
	}

	if res, ok := checkGoal(g, p, mv); ok {
		return res
	}
	g.Describe("ターンが終了した。", narration.Neutral)
	return Result{}
}

var bounceReactions = map[state.Personality]string{
	state.Gentle:  "うわあああ！",
	state.Violent: "止めてくれえええ！",
	state.Phobic:  "（言葉にならない悲鳴）",
}

// move rolls p's dice and resolves overshoot. Smart players stop on the
// goal and take the excess as damage; everyone else reflects.
func move(g *play.Game, p *state.Player) movement {
	g.Section()
	roll := g.RollDice(p.IsBot, 1, p.Dice.Sides(), 0)
	g.Describe(fmt.Sprintf("%sは%dマス進んだ。", p.Name, roll), narration.Positive)

	next := p.Position + roll
	mv := movement{}
	if next > state.GoalPosition {
		over := next - state.GoalPosition
		if p.Personality == state.Smart {
			g.Say("おっと！　ここがゴールだね")
			g.Describe(fmt.Sprintf("%sはスマートに停止した（%dマスの余りを無視した）。", p.Name, over), narration.Positive)
			next = state.GoalPosition
			mv.smartDamage = over
			if p.HP < over {
				const back = 1
				g.Describe(fmt.Sprintf("勢いを殺しきれず、%sは%dマス跳ね返った。", p.Name, back), narration.Negative)
				next = state.GoalPosition - back
			}
		} else {
			next = state.GoalPosition - over
			g.Describe("ゴールで折り返した。", narration.Negative)
		}
	}
	if next < 0 {
		next = -next
		g.Describe("スタートで折り返した。", narration.Negative)
		if line, ok := bounceReactions[p.Personality]; ok {
			g.Say(line)
		}
	}

	emotion := narration.Negative
	if next > p.Position {
		emotion = narration.Positive
	}
	mv.landed = next
	g.Change(p, emotion, indicator.SetPosition(next))
	return mv
}

var rankTrophies = map[state.Personality]string{
	state.Gentle:  "聖人君子",
	state.Violent: "世紀末",
	state.Phobic:  "戦々恐々",
	state.Smart:   "超スマート",
}

// checkGoal ranks every player that reached the goal this turn. It reports
// ok when the human finished, in which case the game is over.
//
// Postcondition: rank == number of players already goaled before this turn + 1.
func checkGoal(g *play.Game, p *state.Player, mv movement) (Result, bool) {
	st := g.State
	var arrived []*state.Player
	for _, q := range st.Players {
		if q.Position == state.GoalPosition && !q.Goaled {
			arrived = append(arrived, q)
		}
	}
	if len(arrived) == 0 {
		return Result{}, false
	}

	g.Section()
	you := st.Human()
	youArrived := false
	for _, q := range arrived {
		if q == you {
			youArrived = true
		}
	}
	if youArrived {
		g.Describe("おめでとう！", narration.Positive)
	}
	rank := st.GoaledCount() + 1
	g.Describe(fmt.Sprintf("%sは%d位でゴールした。", names(arrived), rank), narration.Positive)
	for _, q := range arrived {
		g.Say(GoalLine(q, rank))
		q.Goaled = true
	}

	if !youArrived {
		return Result{}, false
	}
	if !you.PersonalityChanged {
		g.EarnTrophy(you, "情緒安定")
	}
	if p == you && p.Personality == state.Smart && mv.landed == state.GoalPosition && mv.smartDamage == 0 {
		g.EarnTrophy(p, "ぴったり賞")
	}
	if rank == 1 {
		g.EarnTrophy(you, rankTrophies[you.Personality])
	}

	if len(st.Trophies) > 0 {
		g.Section()
		g.System("<今回のトロフィー>", narration.Neutral)
		for _, t := range st.Trophies {
			detail, ok := trophy.Lookup(t.Name)
			if !ok {
				continue
			}
			suffix := ""
			if t.FirstTime {
				suffix = " (new)"
			}
			g.System(fmt.Sprintf("・%s: %s%s", detail.Name, detail.Description, suffix), narration.Positive)
		}
	}
	if st.ReplayMode {
		g.System("これはリプレイです。トロフィーは保存されません。", narration.Negative)
	}
	return Result{Skipped: true, GameOver: gameOverMessage(st, you, rank)}, true
}

// summaryAttrs is the attribute dump of the game-over message.
var summaryAttrs = append([]indicator.Attr{indicator.Turn}, indicator.TurnStart[1:]...)

func gameOverMessage(st *state.GameState, you *state.Player, rank int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sは%d位でゴールした。「%s」", you.Name, rank, GoalLine(you, rank))
	fmt.Fprintf(&b, "\n[状態] %s", indicator.Stringify(you, summaryAttrs))
	if len(st.Trophies) > 0 {
		ts := make([]string, len(st.Trophies))
		for i, t := range st.Trophies {
			ts[i] = t.Name
		}
		fmt.Fprintf(&b, "\n[トロフィー] %s", strings.Join(ts, ", "))
	}
	return b.String()
}
