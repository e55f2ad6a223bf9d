// Package main plays sugoroku in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/app"
	"github.com/cory-johannsen/sugoroku/internal/config"
	"github.com/cory-johannsen/sugoroku/internal/frontend/tui"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	players := flag.Int("players", -1, "computer players (overrides game.computer_players)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *players >= 0 {
		cfg.Game.ComputerPlayers = *players
		if err := cfg.Validate(); err != nil {
			log.Fatalf("invalid flags: %v", err)
		}
	}
	// The terminal belongs to the UI; logs go to a file or nowhere.
	logger := zap.NewNop()
	if cfg.Logging.File != "" {
		if logger, err = observability.NewLogger(cfg.Logging); err != nil {
			log.Fatalf("initializing logger: %v", err)
		}
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := app.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("initializing runtime: %v", err)
	}
	defer rt.Close()

	start := func(opts session.Options) (*session.Controller, error) {
		return session.NewController(ctx, rt.Deps, opts)
	}
	if err := tui.Run(ctx, start, cfg.Game.ComputerPlayers, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
