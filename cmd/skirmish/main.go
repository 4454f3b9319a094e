// Package main runs a single skirmish encounter on the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/frontend/console"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	auto := flag.Bool("auto", false, "let the AI drive the players too")
	seed := flag.Uint64("seed", 0, "seed for reproducible dice (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("loading config: %v", err)
		return 2
	}
	if *auto {
		cfg.Encounter.Players = config.PlayersAuto
	}
	if *seed != 0 {
		cfg.Encounter.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Printf("initializing logger: %v", err)
		return 2
	}
	defer logger.Sync()

	app, cleanup, err := initializeApp(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("initializing skirmish", zap.Error(err))
		return 1
	}
	defer cleanup()

	logger.Info("skirmish initialized",
		zap.String("players", cfg.Encounter.Players),
		zap.Int("player_count", cfg.Encounter.PlayerCount),
		zap.Int("monster_count", cfg.Encounter.MonsterCount),
		zap.Uint64("seed", cfg.Encounter.Seed),
		zap.Duration("startup", time.Since(start)),
	)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.ExpectStop(console.ErrQuit)
	lifecycle.Add("encounter", server.FuncService(func(ctx context.Context) error {
		_, err := app.Run(ctx)
		return err
	}))

	switch err := lifecycle.Run(context.Background()); {
	case err == nil:
		return 0
	case errors.Is(err, console.ErrQuit):
		logger.Info("player left the encounter")
		return 0
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted")
		return 130
	default:
		logger.Error("encounter failed", zap.Error(err))
		return 1
	}
}
