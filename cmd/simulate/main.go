// Package main estimates trophy rates by playing many unattended games.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/app"
	"github.com/cory-johannsen/sugoroku/internal/config"
	"github.com/cory-johannsen/sugoroku/internal/observability"
	"github.com/cory-johannsen/sugoroku/internal/simulate"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file")
	games := flag.Int("games", 0, "games to play (overrides simulate.games)")
	workers := flag.Int("workers", 0, "parallel games (overrides simulate.workers)")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed of the first game")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *games > 0 {
		cfg.Simulate.Games = *games
	}
	if *workers > 0 {
		cfg.Simulate.Workers = *workers
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := app.NewBoard(cfg.Scripting, logger)
	if err != nil {
		logger.Fatal("building board", zap.Error(err))
	}

	report, err := simulate.Run(ctx, simulate.Options{
		Games:           cfg.Simulate.Games,
		Workers:         cfg.Simulate.Workers,
		ComputerPlayers: cfg.Game.ComputerPlayers,
		Seed:            *seed,
		Board:           reg,
	}, logger)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	fmt.Fprintf(os.Stdout, "seed %d  [%s]\n", *seed, time.Since(start).Round(time.Millisecond))
	for _, line := range report.Lines() {
		fmt.Fprintln(os.Stdout, line)
	}
}
