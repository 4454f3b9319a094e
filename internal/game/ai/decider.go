package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// ViewSetter points Lua preconditions at the current battlefield.
// *scripting.Manager implements it.
type ViewSetter interface {
	SetView(v scripting.View)
}

// Assignment maps each team to the domain ID that drives it. A team with no
// entry, or an unregistered domain, uses RandomAttack.
type Assignment map[battle.Team]string

// Decider chooses an action for an AI-driven combatant by running its team's
// HTN planner and taking the first step of the plan.
type Decider struct {
	registry *Registry
	assign   Assignment
	views    ViewSetter
	src      dice.Source
	logger   *zap.Logger
}

// NewDecider creates a Decider. views may be nil when no domain uses Lua.
//
// Precondition: registry, src and logger must be non-nil.
func NewDecider(registry *Registry, assign Assignment, views ViewSetter, src dice.Source, logger *zap.Logger) *Decider {
	if registry == nil {
		panic("ai.NewDecider: registry must not be nil")
	}
	if src == nil {
		panic("ai.NewDecider: src must not be nil")
	}
	if logger == nil {
		panic("ai.NewDecider: logger must not be nil")
	}
	return &Decider{registry: registry, assign: assign, views: views, src: src, logger: logger}
}

// Decide returns self's action for the round.
//
// Precondition: self is a living combatant on field.
// Postcondition: the action names self as source and, for an attack, a
// living opponent.
func (d *Decider) Decide(ctx context.Context, field *battle.Battlefield, self battle.Slot) (battle.Action, error) {
	if err := ctx.Err(); err != nil {
		return battle.Action{}, err
	}
	ws, err := Snapshot(field, self)
	if err != nil {
		return battle.Action{}, err
	}

	planner, ok := d.registry.PlannerFor(d.assign[ws.Team])
	if !ok {
		return RandomAttack(field, self, d.src)
	}
	if d.views != nil {
		d.views.SetView(FieldView{Field: field})
	}
	plan, err := planner.Plan(ws)
	if err != nil {
		return battle.Action{}, fmt.Errorf("planning for slot %d: %w", self, err)
	}
	for _, step := range plan {
		var a battle.Action
		switch step.Action {
		case ActionAttack:
			a = battle.Attack(self, step.Target)
		case ActionDefend:
			a = battle.Defend(self)
		default:
			continue
		}
		d.logger.Debug("ai decided",
			zap.String("domain", planner.Domain().ID),
			zap.Int("slot", int(self)),
			zap.Stringer("action", a),
		)
		return a, nil
	}
	d.logger.Debug("ai plan empty, attacking at random",
		zap.String("domain", planner.Domain().ID),
		zap.Int("slot", int(self)),
	)
	return RandomAttack(field, self, d.src)
}

// RandomAttack returns an attack on a living opponent of self chosen with
// src, or Defend(self) when none is left.
func RandomAttack(field *battle.Battlefield, self battle.Slot, src dice.Source) (battle.Action, error) {
	me, ok := field.Get(self)
	if !ok {
		return battle.Action{}, fmt.Errorf("slot %d: %w", self, battle.ErrNoSuchCombatant)
	}
	pool := field.Living(me.Team.Opponent())
	if len(pool) == 0 {
		return battle.Defend(self), nil
	}
	return battle.Attack(self, pool[src.Intn(len(pool))]), nil
}

// RandomDecider attacks a random living opponent every round.
type RandomDecider struct {
	Src dice.Source
}

// Decide implements the encounter's decider contract.
func (r RandomDecider) Decide(ctx context.Context, field *battle.Battlefield, self battle.Slot) (battle.Action, error) {
	if err := ctx.Err(); err != nil {
		return battle.Action{}, err
	}
	return RandomAttack(field, self, r.Src)
}
