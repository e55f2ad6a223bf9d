// Package app assembles the collaborators shared by every sugoroku binary
// from a validated configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/config"
	"github.com/cory-johannsen/sugoroku/internal/game/board"
	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/scripting"
	"github.com/cory-johannsen/sugoroku/internal/storage"
)

// NewDiceSource returns the randomness named by cfg.Source.
func NewDiceSource(cfg config.DiceConfig) (dice.Source, error) {
	switch cfg.Source {
	case "crypto":
		return dice.NewCryptoSource(), nil
	case "seeded":
		return dice.NewSeededSource(cfg.Seed), nil
	}
	return nil, fmt.Errorf("app: unknown dice source %q", cfg.Source)
}

// NewBoard returns the built-in board plus every scripted space in
// cfg.SpacesDir.
func NewBoard(cfg config.ScriptingConfig, logger *zap.Logger) (*board.Registry, error) {
	reg := board.Default()
	if cfg.SpacesDir == "" {
		return reg, nil
	}
	start := time.Now()
	mgr := scripting.NewManager(cfg.InstructionLimit, logger)
	spaces, err := mgr.LoadDir(cfg.SpacesDir)
	if err != nil {
		return nil, err
	}
	if err := scripting.Install(reg, spaces); err != nil {
		return nil, err
	}
	logger.Info("scripted spaces loaded",
		zap.String("dir", cfg.SpacesDir),
		zap.Int("count", len(spaces)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return reg, nil
}

// Runtime owns the session dependencies of a process.
type Runtime struct {
	Deps  session.Deps
	close func()
}

// Open builds the board, dice source, and trophy store from cfg.
//
// Precondition: cfg passed config.Validate; logger is non-nil.
// Postcondition: on success the caller must call Close.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Runtime, error) {
	reg, err := NewBoard(cfg.Scripting, logger)
	if err != nil {
		return nil, fmt.Errorf("building board: %w", err)
	}
	src, err := NewDiceSource(cfg.Dice)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := storage.OpenTrophyStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening trophy store: %w", err)
	}
	return &Runtime{
		Deps:  session.Deps{Board: reg, Source: src, Store: store, Logger: logger},
		close: closeStore,
	}, nil
}

// Close releases the trophy store.
func (r *Runtime) Close() {
	r.close()
}
