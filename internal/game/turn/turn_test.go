package turn_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cory-johannsen/sugoroku/internal/game/board"
	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/playtest"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/turn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func runTurn(t playtest.TB, st *state.GameState, b play.Board, src dice.Source) (turn.Result, []narration.Log) {
	t.Helper()
	g := playtest.NewGame(t, st, b, src)
	var res turn.Result
	logs := playtest.Collect(g, func(g *play.Game) { res = turn.Run(g) })
	return res, logs
}

func TestRun_GoaledPlayerIsSkipped(t *testing.T) {
	st := state.New(0)
	st.Human().Goaled = true
	res, logs := runTurn(t, st, nil, nil)
	assert.True(t, res.Skipped)
	assert.Empty(t, logs)
}

func TestRun_TurnSkipConsumesTurn(t *testing.T) {
	st := state.New(0)
	st.Human().TurnSkip = 2
	res, logs := runTurn(t, st, nil, nil)
	assert.False(t, res.Skipped)
	assert.False(t, res.Over())
	assert.Equal(t, 1, st.Human().TurnSkip)
	assert.Equal(t, 1, st.Human().Turn)
	assert.Empty(t, st.DiceHistory)
	assert.NotContains(t, playtest.Kinds(logs), narration.KindDiceRollBefore)
	assert.Contains(t, playtest.Texts(logs), "あなたは動けない。")
}

func TestRun_OpeningSequence(t *testing.T) {
	st := state.New(0)
	_, logs := runTurn(t, st, nil, playtest.FixedSource{Face: 4})
	texts := playtest.Texts(logs)
	require.GreaterOrEqual(t, len(texts), 4)
	assert.Equal(t, "あなたのターン1。", texts[0])
	assert.Equal(t, "がんばるぞ", texts[2])
	assert.Contains(t, texts, "あなたは4マス進んだ。")
	assert.Contains(t, texts, "(あなた) 現在地: 0 -> 4")
	assert.Equal(t, "ターンが終了した。", texts[len(texts)-1])
	assert.Equal(t, []int{4}, st.DiceHistory)
}

func TestRun_FirstTurnSingleStepEarnsTrophy(t *testing.T) {
	st := state.New(0)
	runTurn(t, st, nil, playtest.FixedSource{Face: 1})
	assert.True(t, st.HasTrophy("腰が重い"))
}

func TestRun_BotsNeverEarnSingleStepTrophy(t *testing.T) {
	st := state.New(1)
	st.CurrentPlayerIndex = 1
	runTurn(t, st, nil, playtest.FixedSource{Face: 1})
	assert.False(t, st.HasTrophy("腰が重い"))
}

func TestRun_OvershootReflects(t *testing.T) {
	st := state.New(0)
	st.Human().Position = 48
	res, logs := runTurn(t, st, nil, playtest.FixedSource{Face: 6})
	assert.False(t, res.Over())
	assert.Equal(t, 46, st.Human().Position)
	assert.Contains(t, playtest.Texts(logs), "ゴールで折り返した。")
}

func TestRun_D100ReflectsOffStart(t *testing.T) {
	st := state.New(0)
	h := st.Human()
	h.Position = 10
	h.Dice = state.D100
	runTurn(t, st, nil, playtest.FixedSource{Face: 100})
	// 10+100 = 110 -> 50-60 = -10 -> 10
	assert.Equal(t, 10, h.Position)
}

func TestRun_SmartOvershootStopsAndHurts(t *testing.T) {
	st := state.New(0)
	h := st.Human()
	h.Position = 48
	h.Personality = state.Smart
	res, _ := runTurn(t, st, nil, playtest.FixedSource{Face: 6})
	require.True(t, res.Over())
	assert.Equal(t, state.GoalPosition, h.Position)
	// 48+6 overshoots by 4.
	assert.Equal(t, state.InitialHP-4, h.HP)
	assert.False(t, st.HasTrophy("ぴったり賞"))
	assert.True(t, st.HasTrophy("超スマート"))
}

func TestRun_SmartExactLandingEarnsPrecision(t *testing.T) {
	st := state.New(0)
	h := st.Human()
	h.Position = 44
	h.Personality = state.Smart
	h.PersonalityChanged = true
	res, _ := runTurn(t, st, nil, playtest.FixedSource{Face: 6})
	require.True(t, res.Over())
	assert.True(t, st.HasTrophy("ぴったり賞"))
	assert.False(t, st.HasTrophy("情緒安定"))
}

func TestRun_SmartOvershootWithLowHPBouncesAndFaints(t *testing.T) {
	st := state.New(0)
	h := st.Human()
	h.Position = 48
	h.Personality = state.Smart
	h.HP = 1
	res, logs := runTurn(t, st, playtest.HospitalsAt(40), playtest.FixedSource{Face: 6})
	assert.False(t, res.Over())
	assert.Equal(t, 40, h.Position)
	assert.Equal(t, state.InitialHP, h.HP)
	assert.Contains(t, playtest.Texts(logs), "勢いを殺しきれず、あなたは1マス跳ね返った。")
}

func TestRun_GameOverMessage(t *testing.T) {
	st := state.New(0)
	st.Human().Position = 44
	res, _ := runTurn(t, st, nil, playtest.FixedSource{Face: 6})
	require.True(t, res.Over())
	assert.True(t, res.Skipped)
	lines := strings.Split(res.GameOver, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "あなたは1位でゴールした。「嬉しい」", lines[0])
	assert.Equal(t, "[状態] (あなた) ターン: 1 / HP: 20", lines[1])
	assert.Equal(t, "[トロフィー] 情緒安定, 聖人君子", lines[2])
}

func TestRun_TrophyListSkipsUnknownNames(t *testing.T) {
	st := state.New(0)
	st.Human().Position = 44
	st.Trophies = []state.EarnedTrophy{{Name: "幻の賞"}}
	_, logs := runTurn(t, st, nil, playtest.FixedSource{Face: 6})
	listed := 0
	for _, text := range playtest.Texts(logs) {
		assert.False(t, strings.HasPrefix(text, "・: "), text)
		assert.NotContains(t, text, "幻の賞")
		if strings.HasPrefix(text, "・") {
			listed++
		}
	}
	// 情緒安定 and 聖人君子.
	assert.Equal(t, 2, listed)
}

func TestRun_RankCountsEarlierFinishers(t *testing.T) {
	st := state.New(2)
	st.Players[1].Position = state.GoalPosition
	st.Players[1].Goaled = true
	st.Human().Position = 44
	res, _ := runTurn(t, st, nil, playtest.FixedSource{Face: 6})
	require.True(t, res.Over())
	assert.Contains(t, res.GameOver, "2位")
	assert.False(t, st.HasTrophy("聖人君子"))
}

func TestRun_BotFinishDoesNotEndGame(t *testing.T) {
	st := state.New(1)
	st.CurrentPlayerIndex = 1
	st.Players[1].Position = 44
	res, logs := runTurn(t, st, nil, playtest.FixedSource{Face: 6})
	assert.False(t, res.Over())
	assert.True(t, st.Players[1].Goaled)
	assert.Contains(t, playtest.Texts(logs), "CP1は1位でゴールした。")
	assert.Empty(t, st.Trophies)
}

func TestRun_GentleGreetsCoLocated(t *testing.T) {
	st := state.New(1)
	st.Players[1].Position = 3
	_, logs := runTurn(t, st, nil, playtest.FixedSource{Face: 3})
	texts := playtest.Texts(logs)
	assert.Contains(t, texts, "マスにはCP1がいた。")
	assert.Contains(t, texts, "あなたはCP1に挨拶した。")
	assert.Contains(t, texts, "やあ")
}

func TestRun_PhobicOccupantEscapes(t *testing.T) {
	st := state.New(1)
	st.Players[1].Position = 3
	st.Players[1].Personality = state.Phobic
	runTurn(t, st, nil, playtest.FixedSource{Face: 3})
	assert.Equal(t, 4, st.Players[1].Position)
	assert.Equal(t, 3, st.Human().Position)
}

func TestRun_PhobicNewcomerPinned(t *testing.T) {
	st := state.New(2)
	h := st.Human()
	h.Personality = state.Phobic
	st.Players[1].Position = 3
	st.Players[2].Position = 4
	runTurn(t, st, nil, playtest.FixedSource{Face: 3})
	assert.True(t, st.HasTrophy("挟み撃ち"))
	assert.Equal(t, 3, h.Position)
	assert.Equal(t, state.InitialHP-3, h.HP)
}

func TestRun_ViolentAttacksCoLocated(t *testing.T) {
	st := state.New(1)
	h := st.Human()
	h.Personality = state.Violent
	st.Players[1].Position = 3
	_, logs := runTurn(t, st, nil, playtest.FixedSource{Face: 3})
	assert.Contains(t, playtest.Texts(logs), "邪魔だー！")
	// 1d6 hand swing with face 3; a gentle victim does not counter.
	assert.Equal(t, state.InitialHP-3, st.Players[1].HP)
	assert.Equal(t, state.InitialHP, h.HP)
}

func TestHello_IsDeterministic(t *testing.T) {
	st := state.New(1)
	assert.Equal(t, "がんばるぞ", turn.Hello(st))
	st.CurrentPlayerIndex = 1
	st.Players[1].Position = 30
	st.Players[1].Personality = state.Smart
	// (1 + 30) % 6 == 1
	assert.Equal(t, "無駄な動きはしない", turn.Hello(st))
}

// Position bounds: every movement resolution keeps all players on the track.
func TestRun_PositionBounds_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bots := rapid.IntRange(0, 3).Draw(rt, "bots")
		st := state.New(bots)
		for _, p := range st.Players {
			p.Position = rapid.IntRange(0, state.GoalPosition-1).Draw(rt, "pos")
			p.Personality = rapid.SampledFrom(state.Personalities).Draw(rt, "personality")
			p.HP = rapid.IntRange(1, 40).Draw(rt, "hp")
			if rapid.Bool().Draw(rt, "d100") {
				p.Dice = state.D100
			}
		}
		st.CurrentPlayerIndex = rapid.IntRange(0, bots).Draw(rt, "current")
		seed := rapid.Uint64().Draw(rt, "seed")

		runTurn(rt, st, board.Default(), dice.NewSeededSource(seed))

		for _, p := range st.Players {
			assert.GreaterOrEqual(rt, p.Position, 0)
			assert.LessOrEqual(rt, p.Position, state.GoalPosition)
		}
	})
}

// Rank monotonicity: successive goal groups get consecutive ranks.
func TestRun_RankMonotonic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bots := rapid.IntRange(1, 5).Draw(rt, "bots")
		st := state.New(bots)
		st.Human().Position = 0
		for _, p := range st.Players[1:] {
			p.Position = state.GoalPosition - 6
		}
		for i := 1; i <= bots; i++ {
			st.CurrentPlayerIndex = i
			_, logs := runTurn(rt, st, nil, playtest.FixedSource{Face: 6})
			assert.Contains(rt, playtest.Texts(logs), fmt.Sprintf("CP%dは%d位でゴールした。", i, i))
		}
		assert.Equal(rt, bots, st.GoaledCount())
	})
}
