package session_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/game/board"
	"github.com/cory-johannsen/sugoroku/internal/game/checkpoint"
	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/playtest"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
	"github.com/cory-johannsen/sugoroku/internal/replay"
)

const maxSteps = 100000

func deps(src dice.Source, store trophy.Store) session.Deps {
	if store == nil {
		store = trophy.NewMemoryStore()
	}
	return session.Deps{Board: board.Default(), Source: src, Store: store, Logger: zap.NewNop()}
}

func newController(t *testing.T, d session.Deps, opts session.Options) *session.Controller {
	t.Helper()
	c, err := session.NewController(context.Background(), d, opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

// drain pulls until the game ends and returns every log and the final message.
func drain(t *testing.T, c *session.Controller) ([]narration.Log, string) {
	t.Helper()
	var logs []narration.Log
	for i := 0; i < maxSteps; i++ {
		step := c.Next()
		if step.Done {
			return logs, step.Message
		}
		logs = append(logs, step.Log)
	}
	t.Fatalf("game did not finish within %d steps", maxSteps)
	return nil, ""
}

// containsInOrder reports whether want appears in logs as a subsequence.
func containsInOrder(logs []narration.Log, want []func(narration.Log) bool) bool {
	i := 0
	for _, l := range logs {
		if i < len(want) && want[i](l) {
			i++
		}
	}
	return i == len(want)
}

func text(kind narration.Kind, s string) func(narration.Log) bool {
	return func(l narration.Log) bool { return l.Kind == kind && l.Text == s }
}

func TestController_SinglePlayerReplayScenario(t *testing.T) {
	c := newController(t, deps(playtest.FixedSource{Face: 6}, nil), session.Options{
		Replay: []int{6, 6, 6, 6, 6, 6, 6, 6, 6},
	})

	logs, message := drain(t, c)

	require.NotEmpty(t, logs)
	assert.Equal(t, narration.Description(session.ReplayStarted, narration.Neutral), logs[0])
	assert.True(t, containsInOrder(logs, []func(narration.Log) bool{
		text(narration.KindDescription, "あなたのターン1。"),
		func(l narration.Log) bool { return l.Kind == narration.KindSystem && strings.HasPrefix(l.Text, "(あなた)") },
		func(l narration.Log) bool { return l.Kind == narration.KindDialog },
		func(l narration.Log) bool { return l.Kind == narration.KindDiceRollBefore && l.Expression == "1d6" && !l.IsBot },
		func(l narration.Log) bool {
			return l.Kind == narration.KindDiceRollAfter && l.Result == 6 && assert.ObjectsAreEqual([]int{6}, l.Details)
		},
		text(narration.KindDescription, "あなたは6マス進んだ。"),
		text(narration.KindSystem, "(あなた) 現在地: 0 -> 6"),
		text(narration.KindDescription, "幽霊屋敷がある。"),
		text(narration.KindSystem, "これはリプレイです。トロフィーは保存されません。"),
	}))
	assert.Contains(t, message, "あなた")
	assert.Contains(t, message, "1位")
	assert.True(t, c.Done())
	assert.Equal(t, session.Step{Done: true, Message: message}, c.Next())
	assert.Equal(t, logs, c.History())
}

func TestController_ReplayReproducesGame(t *testing.T) {
	store := trophy.NewMemoryStore()
	first := newController(t, deps(dice.NewSeededSource(42), store), session.Options{ComputerPlayers: 3})
	original, message := drain(t, first)
	code, err := first.ReplayCode()
	require.NoError(t, err)
	history, err := replay.Decode(code)
	require.NoError(t, err)
	assert.Equal(t, first.State().DiceHistory, history)

	// A different source proves no fresh randomness is consumed.
	second := newController(t, deps(dice.NewSeededSource(7), store), session.Options{ComputerPlayers: 3, Replay: history})
	replayed, replayMessage := drain(t, second)

	require.NotEmpty(t, replayed)
	assert.Equal(t, session.ReplayStarted, replayed[0].Text)
	var filtered []narration.Log
	for _, l := range replayed[1:] {
		if l.Text == "これはリプレイです。トロフィーは保存されません。" {
			continue
		}
		l.Text = strings.TrimSuffix(l.Text, " (new)")
		filtered = append(filtered, l)
	}
	for i := range original {
		original[i].Text = strings.TrimSuffix(original[i].Text, " (new)")
	}
	assert.Equal(t, original, filtered)
	assert.Equal(t, message, replayMessage)
	for _, tr := range second.State().Trophies {
		assert.False(t, tr.FirstTime, tr.Name)
	}
	assert.Empty(t, second.State().FutureDice)
}

func TestController_LoadOnlyAtTurnBoundary(t *testing.T) {
	c := newController(t, deps(dice.NewSeededSource(1), nil), session.Options{ComputerPlayers: 1})
	snapshot, err := c.Save()
	require.NoError(t, err)

	// Nothing emitted yet.
	assert.True(t, c.Loadable())
	require.NoError(t, c.Load(snapshot))

	step := c.Next()
	require.False(t, step.Done)
	assert.NotEqual(t, narration.KindTurnEnd, step.Log.Kind)
	before := c.State()
	assert.ErrorIs(t, c.Load(snapshot), session.ErrLoadOutsideTurnBoundary)
	assert.Equal(t, before, c.State())

	for i := 0; i < maxSteps; i++ {
		step = c.Next()
		require.False(t, step.Done)
		if step.Log.Kind == narration.KindTurnEnd {
			break
		}
		assert.False(t, c.Loadable())
	}
	require.Equal(t, narration.KindTurnEnd, step.Log.Kind)
	assert.True(t, c.Loadable())

	mid, err := c.Save()
	require.NoError(t, err)
	require.NoError(t, c.Load(snapshot))
	assert.Equal(t, 0, c.State().Players[0].Turn)
	require.NoError(t, c.Load(mid))
	assert.Equal(t, 1, c.State().CurrentPlayerIndex)

	c.Next()
	assert.False(t, c.Loadable())
}

func TestController_LoadRejectsInvalidCheckpoint(t *testing.T) {
	c := newController(t, deps(dice.NewSeededSource(1), nil), session.Options{})
	before := c.State()
	err := c.Load([]byte("version: 1\nstate:\n  players: []\n"))
	assert.ErrorIs(t, err, checkpoint.ErrInvalidState)
	assert.NotErrorIs(t, err, session.ErrLoadOutsideTurnBoundary)
	assert.Equal(t, before, c.State())
}

func TestController_LoadRejectsUnplayableStates(t *testing.T) {
	cases := map[string]func(st *state.GameState){
		"human goaled": func(st *state.GameState) {
			st.Human().Goaled = true
			st.Human().Position = state.GoalPosition
		},
		"negative turn": func(st *state.GameState) {
			st.Human().Turn = -11
			st.Human().Position = 44
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := newController(t, deps(playtest.FixedSource{Face: 6}, nil), session.Options{ComputerPlayers: 1})
			st := state.New(1)
			mutate(st)
			data, err := checkpoint.Encode(st)
			require.NoError(t, err)

			before := c.State()
			assert.ErrorIs(t, c.Load(data), checkpoint.ErrInvalidState)
			assert.Equal(t, before, c.State())
			assert.False(t, c.Next().Done)
		})
	}
}

func TestController_TurnEndSeparatesTurns(t *testing.T) {
	c := newController(t, deps(playtest.FixedSource{Face: 2}, nil), session.Options{ComputerPlayers: 2})
	var turnStarts, turnEnds int
	for turnEnds < 6 {
		step := c.Next()
		require.False(t, step.Done)
		switch {
		case step.Log.Kind == narration.KindTurnEnd:
			turnEnds++
			assert.Equal(t, turnStarts, turnEnds)
		case step.Log.Kind == narration.KindDescription && strings.Contains(step.Log.Text, "のターン"):
			turnStarts++
		}
	}
}

func TestController_CloseStopsGame(t *testing.T) {
	c := newController(t, deps(dice.NewSeededSource(3), nil), session.Options{ComputerPlayers: 1})
	c.Next()
	c.Close()
	c.Close()
	assert.True(t, c.Done())
	assert.Equal(t, session.Step{Done: true}, c.Next())
}

func TestController_PersistsTrophiesOutsideReplay(t *testing.T) {
	store := trophy.NewMemoryStore()
	c := newController(t, deps(playtest.FixedSource{Face: 1}, store), session.Options{})
	for i := 0; i < 20; i++ {
		c.Next()
	}
	names, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, names, "腰が重い")

	again := newController(t, deps(playtest.FixedSource{Face: 1}, store), session.Options{})
	for i := 0; i < 20; i++ {
		again.Next()
	}
	require.NotEmpty(t, again.State().Trophies)
	assert.False(t, again.State().Trophies[0].FirstTime)
}
