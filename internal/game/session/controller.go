// Package session drives a game as a pull-based sequence of logs and keeps
// track of every live game served by a process.
package session

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/game/checkpoint"
	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
	"github.com/cory-johannsen/sugoroku/internal/game/turn"
	"github.com/cory-johannsen/sugoroku/internal/replay"
)

// ErrLoadOutsideTurnBoundary is returned by Load unless the last emitted log
// was a turn end, or nothing has been emitted yet.
var ErrLoadOutsideTurnBoundary = errors.New("session: load is only allowed at a turn boundary")

// ReplayStarted is the first log of every replayed game.
const ReplayStarted = "リプレイの再生を開始した。"

// Step is one result of Next: either a log or the terminal game-over message.
type Step struct {
	Log     narration.Log
	Done    bool
	Message string
}

// Deps are the collaborators shared by every game of a process.
type Deps struct {
	Board  play.Board
	Source dice.Source
	Store  trophy.Store
	Logger *zap.Logger
}

// Options configure one game.
type Options struct {
	ComputerPlayers int
	// Replay, when non-nil, is a recorded dice history to reproduce.
	Replay []int
}

// Controller owns the state of one game.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	id     string
	game   *play.Game
	logger *zap.Logger

	next   func() (narration.Log, bool)
	stop   func()
	result string

	history  []narration.Log
	loadable bool
	final    *Step
}

// NewController starts a fresh game. The trophy store is read once here;
// firstTime flags compare against this snapshot.
//
// Precondition: every Deps field is non-nil; opts.ComputerPlayers >= 0.
func NewController(ctx context.Context, deps Deps, opts Options) (*Controller, error) {
	ledger, err := trophy.Open(ctx, deps.Store, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	st := state.New(opts.ComputerPlayers)
	if opts.Replay != nil {
		st.ReplayMode = true
		st.FutureDice = append([]int(nil), opts.Replay...)
	}

	id := uuid.NewString()
	logger := deps.Logger.With(zap.String("session", id))
	c := &Controller{
		id:       id,
		logger:   logger,
		loadable: true,
		game:     play.New(ctx, st, deps.Board, dice.NewRoller(deps.Source, logger), ledger, logger),
	}
	logger.Info("session started",
		zap.Int("computer_players", opts.ComputerPlayers),
		zap.Bool("replay", st.ReplayMode),
	)
	return c, nil
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

func (c *Controller) run(g *play.Game) string {
	c.loadable = false
	if g.State.ReplayMode {
		g.Describe(ReplayStarted, narration.Neutral)
	}
	for {
		res := turn.Run(g)
		if res.Over() {
			return res.GameOver
		}
		g.State.Advance()
		if !res.Skipped {
			c.loadable = true
			g.Emit(narration.TurnEnd())
			c.loadable = false
		}
	}
}

func (c *Controller) seq() iter.Seq[narration.Log] {
	return play.Run(c.game, c.run, &c.result)
}

// Next advances the game by exactly one log.
//
// Postcondition: once a Step with Done is returned, every later call
// returns the same Step.
func (c *Controller) Next() Step {
	if c.final != nil {
		return *c.final
	}
	if c.next == nil {
		c.next, c.stop = iter.Pull(c.seq())
	}
	l, ok := c.next()
	if !ok {
		c.final = &Step{Done: true, Message: c.result}
		c.loadable = false
		c.logger.Info("game over",
			zap.Int("logs", len(c.history)),
			zap.Int("dice", len(c.game.State.DiceHistory)),
		)
		return *c.final
	}
	c.history = append(c.history, l)
	return Step{Log: l}
}

// History returns every log emitted so far.
func (c *Controller) History() []narration.Log {
	return append([]narration.Log(nil), c.history...)
}

// Loadable reports whether Load would be accepted now.
func (c *Controller) Loadable() bool { return c.loadable }

// Done reports whether the game is over.
func (c *Controller) Done() bool { return c.final != nil }

// State returns a copy of the current game state.
func (c *Controller) State() *state.GameState { return c.game.State.Clone() }

// Save returns a checkpoint of the current state.
func (c *Controller) Save() ([]byte, error) {
	data, err := checkpoint.Encode(c.game.State)
	if err != nil {
		return nil, err
	}
	c.logger.Info("checkpoint saved", zap.Int("bytes", len(data)))
	return data, nil
}

// Load replaces the state with a checkpoint.
//
// Precondition: Loadable() is true.
// Postcondition: on error the state is untouched.
func (c *Controller) Load(data []byte) error {
	if !c.loadable {
		return ErrLoadOutsideTurnBoundary
	}
	loaded, err := checkpoint.Decode(data)
	if err != nil {
		return fmt.Errorf("loading checkpoint: %w", err)
	}
	*c.game.State = *loaded
	c.logger.Info("checkpoint loaded",
		zap.Int("current_player", loaded.CurrentPlayerIndex),
		zap.Int("dice", len(loaded.DiceHistory)),
	)
	return nil
}

// ReplayCode encodes the dice rolled so far as a shareable token.
func (c *Controller) ReplayCode() (string, error) {
	return replay.Encode(c.game.State.DiceHistory)
}

// Close abandons the game; later calls to Next report Done with an empty
// message. It is safe to call more than once.
func (c *Controller) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.final == nil {
		c.final = &Step{Done: true}
		c.loadable = false
	}
}
