package play_test

import (
	"iter"
	"testing"

	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/playtest"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_YieldsInOrderAndReturnsResult(t *testing.T) {
	g := playtest.NewGame(t, state.New(0), nil, nil)
	var result string
	seq := play.Run(g, func(g *play.Game) string {
		g.Describe("a", narration.Positive)
		g.Say("b")
		g.Section()
		return "done"
	}, &result)

	var got []narration.Log
	for l := range seq {
		got = append(got, l)
	}
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, narration.KindDialog, got[1].Kind)
	assert.Equal(t, "done", result)
}

func TestRun_StopAbandonsBody(t *testing.T) {
	g := playtest.NewGame(t, state.New(0), nil, nil)
	reached := false
	var result string
	next, stop := iter.Pull(play.Run(g, func(g *play.Game) string {
		g.Say("one")
		g.Say("two")
		reached = true
		return "unreachable"
	}, &result))
	l, ok := next()
	require.True(t, ok)
	assert.Equal(t, "one", l.Text)
	stop()
	assert.False(t, reached)
	assert.Empty(t, result)
}

func TestEmit_PanicsOutsideRun(t *testing.T) {
	g := playtest.NewGame(t, state.New(0), nil, nil)
	assert.Panics(t, func() { g.Say("x") })
}

func TestRollDice_EmitsBeforeAndAfter(t *testing.T) {
	st := state.New(0)
	st.FutureDice = []int{3, 4}
	g := playtest.NewGame(t, st, nil, nil)
	var total int
	logs := playtest.Collect(g, func(g *play.Game) { total = g.RollDice(false, 2, 6, 1) })

	require.Len(t, logs, 2)
	assert.Equal(t, narration.DiceRollBefore("2d6+1", false), logs[0])
	assert.Equal(t, narration.DiceRollAfter("2d6+1", 8, []int{3, 4}), logs[1])
	assert.Equal(t, 8, total)
	assert.Equal(t, []int{3, 4}, st.DiceHistory)
}

func TestNearestHospital_ScansBackward(t *testing.T) {
	g := playtest.NewGame(t, state.New(0), playtest.HospitalsAt(10, 20), nil)
	assert.Equal(t, 20, g.NearestHospital(25))
	assert.Equal(t, 20, g.NearestHospital(20))
	assert.Equal(t, 10, g.NearestHospital(19))
	assert.Equal(t, 0, g.NearestHospital(9))
}

func TestEarnTrophy_BotsNeverEarn(t *testing.T) {
	st := state.New(1)
	g := playtest.NewGame(t, st, nil, nil)
	assert.False(t, g.EarnTrophy(st.Players[1], "境地"))
	assert.True(t, g.EarnTrophy(st.Players[0], "境地"))
	assert.Len(t, st.Trophies, 1)
}
