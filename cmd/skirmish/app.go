package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/encounter"
	"github.com/cory-johannsen/skirmish/internal/frontend/console"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/buff"
	"github.com/cory-johannsen/skirmish/internal/game/command"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// Deciders maps each team to the collaborator that chooses its actions.
type Deciders map[battle.Team]encounter.Decider

// App holds everything needed to play one encounter.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	generator *roster.Generator
	resolver  *battle.Resolver
	renderer  *console.Renderer
	deciders  Deciders
}

// NewApp assembles an App.
func NewApp(cfg config.Config, logger *zap.Logger, generator *roster.Generator, resolver *battle.Resolver, renderer *console.Renderer, deciders Deciders) *App {
	return &App{cfg: cfg, logger: logger, generator: generator, resolver: resolver, renderer: renderer, deciders: deciders}
}

// Run generates a battlefield and plays it to the end.
func (a *App) Run(ctx context.Context) (battle.Status, error) {
	field, err := a.generator.Generate()
	if err != nil {
		return battle.Continuing, fmt.Errorf("generating roster: %w", err)
	}
	enc := encounter.New(field, a.resolver, a.deciders, a.renderer, a.cfg.Encounter.MaxRounds, a.logger)
	status, err := enc.Run(ctx)
	if err != nil {
		return status, err
	}
	if err := a.renderer.Err(); err != nil {
		return status, fmt.Errorf("writing to console: %w", err)
	}
	return status, nil
}

var appSet = wire.NewSet(
	provideSource,
	dice.NewLoggedRoller,
	provideCounts,
	provideContent,
	roster.NewGenerator,
	provideBuffs,
	battle.NewResolver,
	provideDomains,
	provideScripts,
	provideAIRegistry,
	provideAIDecider,
	provideRenderer,
	command.DefaultRegistry,
	console.NewPrompt,
	provideDeciders,
	NewApp,
)

func provideSource(cfg config.Config) dice.Source {
	if cfg.Encounter.Seed != 0 {
		return dice.NewSeededSource(cfg.Encounter.Seed)
	}
	return dice.NewCryptoSource()
}

func provideCounts(cfg config.Config) roster.Counts {
	return roster.Counts{Players: cfg.Encounter.PlayerCount, Monsters: cfg.Encounter.MonsterCount}
}

func provideContent(cfg config.Config) (*roster.Content, error) {
	content, err := roster.LoadDirectory(cfg.Content.RosterDir)
	if err != nil {
		return nil, fmt.Errorf("loading roster content: %w", err)
	}
	return content, nil
}

func provideBuffs(cfg config.Config) (*buff.Registry, error) {
	reg, err := buff.LoadDirectory(cfg.Content.BuffDir)
	if err != nil {
		return nil, fmt.Errorf("loading buffs: %w", err)
	}
	return reg, nil
}

func provideDomains(cfg config.Config) ([]*ai.Domain, error) {
	domains, err := ai.LoadDomains(cfg.Content.AIDir)
	if err != nil {
		return nil, fmt.Errorf("loading ai domains: %w", err)
	}
	return domains, nil
}

// provideScripts loads the precondition scripts into one scope per domain.
func provideScripts(cfg config.Config, domains []*ai.Domain, roller *dice.Roller, logger *zap.Logger) (*scripting.Manager, func(), error) {
	mgr := scripting.NewManager(roller, logger)
	for _, d := range domains {
		if err := mgr.LoadScope(d.ID, cfg.Content.ScriptDir, cfg.Scripting.InstructionLimit); err != nil {
			mgr.Close()
			return nil, nil, fmt.Errorf("loading scripts for domain %q: %w", d.ID, err)
		}
	}
	return mgr, mgr.Close, nil
}

func provideAIRegistry(domains []*ai.Domain, mgr *scripting.Manager, src dice.Source) (*ai.Registry, error) {
	return ai.NewRegistryFromDomains(domains, mgr, src)
}

func provideAIDecider(cfg config.Config, reg *ai.Registry, mgr *scripting.Manager, src dice.Source, logger *zap.Logger) *ai.Decider {
	assign := ai.Assignment{
		battle.Player:  cfg.Encounter.PlayerDomain,
		battle.Monster: cfg.Encounter.MonsterDomain,
	}
	return ai.NewDecider(reg, assign, mgr, src, logger)
}

func provideRenderer(cfg config.Config, out io.Writer) *console.Renderer {
	return console.NewRenderer(out, cfg.Console.Color)
}

func provideDeciders(cfg config.Config, auto *ai.Decider, prompt *console.Prompt) Deciders {
	d := Deciders{battle.Player: auto, battle.Monster: auto}
	if cfg.Encounter.Players == config.PlayersHuman {
		d[battle.Player] = prompt
	}
	return d
}
