// Package play is the execution context shared by the turn engine, the
// combat engine, and space events. A Game owns the state of one session and
// turns every Emit into a suspension point of the session's log sequence.
package play

import (
	"context"
	"iter"

	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/indicator"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
	"go.uber.org/zap"
)

// Space is one entry of the board. A nil Generate means the space has no
// event; Hospital marks where knocked-out players are carried.
type Space struct {
	Name     string
	Generate func(g *Game)
	Hospital bool
}

// Board maps positions to spaces.
type Board interface {
	// Space returns the space at pos, reporting false when none is registered.
	Space(pos int) (Space, bool)
}

// stopped is the panic value used to unwind a sequence whose consumer stopped pulling.
type stopped struct{}

// Game is the engine context for one session.
//
// Game is not safe for concurrent use. All engine code runs on the
// goroutine driving the sequence returned by Run.
type Game struct {
	State    *state.GameState
	Board    Board
	Roller   *dice.Roller
	Trophies *trophy.Ledger
	Logger   *zap.Logger

	ctx   context.Context
	yield func(narration.Log) bool
}

// New builds a Game.
//
// Precondition: every argument is non-nil.
func New(ctx context.Context, st *state.GameState, board Board, roller *dice.Roller, ledger *trophy.Ledger, logger *zap.Logger) *Game {
	return &Game{State: st, Board: board, Roller: roller, Trophies: ledger, Logger: logger, ctx: ctx}
}

// Run adapts body into a log sequence. Each Emit inside body yields one Log.
// When body returns, *result holds its value. Stopping iteration early
// abandons body at its current Emit.
func Run(g *Game, body func(g *Game) string, result *string) iter.Seq[narration.Log] {
	return func(yield func(narration.Log) bool) {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(stopped); !ok {
					panic(r)
				}
			}
			g.yield = nil
		}()
		g.yield = yield
		*result = body(g)
	}
}

// Emit yields l to the consumer and blocks until the next pull.
//
// Precondition: called from within the body passed to Run.
func (g *Game) Emit(l narration.Log) {
	if g.yield == nil {
		panic("play: Emit called outside Run")
	}
	if !g.yield(l) {
		panic(stopped{})
	}
}

// Context returns the session context used for store access.
func (g *Game) Context() context.Context { return g.ctx }

// Current returns the player whose turn it is.
func (g *Game) Current() *state.Player { return g.State.CurrentPlayer() }

// Describe emits a description line.
func (g *Game) Describe(text string, emotion narration.Emotion) {
	g.Emit(narration.Description(text, emotion))
}

// Say emits a dialog line.
func (g *Game) Say(text string) {
	g.Emit(narration.Dialog(text))
}

// System emits a system line.
func (g *Game) System(text string, emotion narration.Emotion) {
	g.Emit(narration.System(text, emotion))
}

// Section emits a section break.
func (g *Game) Section() {
	g.Emit(narration.NewSection())
}

// RollDice is the only source of dice values in the engine.
//
// Postcondition: emits diceRollBefore then diceRollAfter, appends exactly
// count faces to the dice history, and returns their sum plus bonus.
func (g *Game) RollDice(isBot bool, count, sides, bonus int) int {
	expr := dice.Expression{Count: count, Sides: sides, Modifier: bonus}
	g.Emit(narration.DiceRollBefore(expr.String(), isBot))
	res := g.Roller.Draw(expr, g.State)
	g.Emit(narration.DiceRollAfter(res.Expression, res.Total(), res.Dice))
	return res.Total()
}

// Roll rolls a parsed expression through RollDice.
func (g *Game) Roll(isBot bool, expr dice.Expression) int {
	return g.RollDice(isBot, expr.Count, expr.Sides, expr.Modifier)
}

// Change applies changers to p and emits the resulting system line.
func (g *Game) Change(p *state.Player, emotion narration.Emotion, changers ...indicator.Changer) {
	g.System(indicator.Apply(p, changers...), emotion)
}

// Attrs emits an attribute summary of p.
func (g *Game) Attrs(p *state.Player, attrs []indicator.Attr) {
	g.System(indicator.Stringify(p, attrs), narration.Neutral)
}

// EarnTrophy records name when p is the human player. Bots never earn trophies.
//
// Postcondition: returns true when a new in-game record was added.
func (g *Game) EarnTrophy(p *state.Player, name string) bool {
	if p.IsBot {
		return false
	}
	earned, ok := g.Trophies.Earn(g.ctx, g.State, name)
	if ok {
		g.Logger.Info("trophy earned",
			zap.String("trophy", earned.Name),
			zap.Bool("first_time", earned.FirstTime),
		)
	}
	return ok
}

// NearestHospital scans backward from pos and returns the first hospital.
//
// Postcondition: 0 <= result <= pos; position 0 is a hospital of last resort.
func (g *Game) NearestHospital(pos int) int {
	for i := pos; i > 0; i-- {
		if s, ok := g.Board.Space(i); ok && s.Hospital {
			return i
		}
	}
	return 0
}
