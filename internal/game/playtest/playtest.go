// Package playtest builds deterministic engine contexts for tests.
package playtest

import (
	"context"

	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Board is a map-backed play.Board.
type Board map[int]play.Space

// Space implements play.Board.
func (b Board) Space(pos int) (play.Space, bool) {
	s, ok := b[pos]
	return s, ok
}

// HospitalsAt returns a board whose only spaces are hospitals at positions.
func HospitalsAt(positions ...int) Board {
	b := Board{}
	for _, p := range positions {
		b[p] = play.Space{Name: "病院", Hospital: true}
	}
	return b
}

// FixedSource returns Face-1 for every Intn call, capped to n-1.
type FixedSource struct{ Face int }

// Intn implements dice.Source.
func (f FixedSource) Intn(n int) int {
	if f.Face-1 >= n {
		return n - 1
	}
	return f.Face - 1
}

// TB is the subset of testing.TB that rapid.T also satisfies.
type TB interface {
	require.TestingT
	Helper()
}

// NewGame returns a Game over st with an in-memory trophy store. When
// board is nil only position 0 is treated as a hospital.
func NewGame(t TB, st *state.GameState, board play.Board, src dice.Source) *play.Game {
	t.Helper()
	if board == nil {
		board = Board{}
	}
	if src == nil {
		src = FixedSource{Face: 1}
	}
	ledger, err := trophy.Open(context.Background(), trophy.NewMemoryStore(), zap.NewNop())
	require.NoError(t, err)
	return play.New(context.Background(), st, board, dice.NewRoller(src, zap.NewNop()), ledger, zap.NewNop())
}

// Collect runs body to completion and returns every emitted log.
func Collect(g *play.Game, body func(g *play.Game)) []narration.Log {
	var result string
	var logs []narration.Log
	for l := range play.Run(g, func(g *play.Game) string { body(g); return "" }, &result) {
		logs = append(logs, l)
	}
	return logs
}

// Texts returns the Text of every log that has one.
func Texts(logs []narration.Log) []string {
	var out []string
	for _, l := range logs {
		if l.Text != "" {
			out = append(out, l.Text)
		}
	}
	return out
}

// Kinds returns the kind of every log.
func Kinds(logs []narration.Log) []narration.Kind {
	out := make([]narration.Kind, len(logs))
	for i, l := range logs {
		out[i] = l.Kind
	}
	return out
}
