// Package main serves sugoroku games over telnet and WebSocket.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/app"
	"github.com/cory-johannsen/sugoroku/internal/config"
	"github.com/cory-johannsen/sugoroku/internal/frontend/telnet"
	"github.com/cory-johannsen/sugoroku/internal/frontend/ws"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/observability"
	"github.com/cory-johannsen/sugoroku/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	rt, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing runtime", zap.Error(err))
	}
	defer rt.Close()

	sessions := session.NewManager(rt.Deps)
	lifecycle := server.NewLifecycle(logger)

	if cfg.Telnet.Port != 0 {
		acc := telnet.NewAcceptor(cfg.Telnet, telnet.NewGameHandler(sessions, cfg.Game.ComputerPlayers, logger), logger)
		lifecycle.Add("telnet", &server.FuncService{StartFn: acc.ListenAndServe, StopFn: acc.Stop})
	}
	if cfg.WebSocket.Port != 0 {
		wsSrv := ws.NewServer(cfg.WebSocket, sessions, cfg.Game.ComputerPlayers, logger)
		lifecycle.Add("websocket", &server.FuncService{StartFn: wsSrv.ListenAndServe, StopFn: wsSrv.Stop})
	}

	logger.Info("sugoroku server initialized",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.String("websocket_addr", cfg.WebSocket.Addr()),
		zap.String("trophy_backend", cfg.Trophies.Backend),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server exited", zap.Error(err))
		return
	}
	logger.Info("server stopped", zap.Int("abandoned_sessions", sessions.Count()))
}
