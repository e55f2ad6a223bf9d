// Package simulate plays many unattended games in parallel and reports how
// often each trophy is earned.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/play"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
)

// DefaultMaxSteps bounds one game; a game still running after this many
// logs counts as stalled.
const DefaultMaxSteps = 200_000

// ErrInvalidOptions is returned by Run for unusable Options.
var ErrInvalidOptions = errors.New("simulate: invalid options")

// Options configure a batch.
type Options struct {
	Games           int
	Workers         int
	ComputerPlayers int
	// Seed makes the batch reproducible: game i rolls from Seed+i.
	Seed     uint64
	Board    play.Board
	MaxSteps int
}

// Report aggregates a batch.
type Report struct {
	Games   int
	Stalled int
	// Trophies counts the games in which each trophy was earned.
	Trophies map[string]int
	// Turns is the sum of the human seat's turn counts.
	Turns int
	Logs  int
	Dice  int
}

// Rate returns the share of finished games that earned name.
func (r Report) Rate(name string) float64 {
	finished := r.Games - r.Stalled
	if finished == 0 {
		return 0
	}
	return float64(r.Trophies[name]) / float64(finished)
}

// MeanTurns returns the average number of turns the human seat took.
func (r Report) MeanTurns() float64 {
	finished := r.Games - r.Stalled
	if finished == 0 {
		return 0
	}
	return float64(r.Turns) / float64(finished)
}

// Lines renders the report in catalog order.
func (r Report) Lines() []string {
	lines := []string{
		fmt.Sprintf("games %d  stalled %d  mean turns %.1f  dice %d", r.Games, r.Stalled, r.MeanTurns(), r.Dice),
	}
	for _, t := range trophy.All() {
		lines = append(lines, fmt.Sprintf("%-12s %6d  %6.2f%%", t.Name, r.Trophies[t.Name], 100*r.Rate(t.Name)))
	}
	return lines
}

type outcome struct {
	stalled  bool
	trophies []string
	turns    int
	logs     int
	dice     int
}

// Run plays opts.Games games on opts.Workers goroutines. The human seat
// always rolls immediately.
//
// Postcondition: on success the Report covers every game; the result does
// not depend on Workers.
func Run(ctx context.Context, opts Options, logger *zap.Logger) (Report, error) {
	if opts.Games < 1 || opts.Workers < 1 || opts.ComputerPlayers < 0 || opts.Board == nil {
		return Report{}, fmt.Errorf("%w: games=%d workers=%d computer_players=%d",
			ErrInvalidOptions, opts.Games, opts.Workers, opts.ComputerPlayers)
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	start := time.Now()

	var (
		mu     sync.Mutex
		report = Report{Trophies: make(map[string]int)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range opts.Games {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := playOne(gctx, opts, opts.Seed+uint64(i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			mu.Lock()
			defer mu.Unlock()
			report.Games++
			if out.stalled {
				report.Stalled++
				logger.Warn("game stalled", zap.Int("game", i), zap.Int("logs", out.logs))
				return nil
			}
			for _, name := range out.trophies {
				report.Trophies[name]++
			}
			report.Turns += out.turns
			report.Logs += out.logs
			report.Dice += out.dice
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	logger.Info("simulation finished",
		zap.Int("games", report.Games),
		zap.Int("stalled", report.Stalled),
		zap.Int("workers", opts.Workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func playOne(ctx context.Context, opts Options, seed uint64) (outcome, error) {
	c, err := session.NewController(ctx, session.Deps{
		Board:  opts.Board,
		Source: dice.NewSeededSource(seed),
		Store:  trophy.NewMemoryStore(),
		Logger: zap.NewNop(),
	}, session.Options{ComputerPlayers: opts.ComputerPlayers})
	if err != nil {
		return outcome{}, err
	}
	defer c.Close()

	var out outcome
	for out.logs < opts.MaxSteps {
		if out.logs%1024 == 0 && ctx.Err() != nil {
			return outcome{}, ctx.Err()
		}
		if c.Next().Done {
			st := c.State()
			for _, t := range st.Trophies {
				out.trophies = append(out.trophies, t.Name)
			}
			out.turns = st.Human().Turn
			out.dice = len(st.DiceHistory)
			return out, nil
		}
		out.logs++
	}
	out.stalled = true
	return out, nil
}
