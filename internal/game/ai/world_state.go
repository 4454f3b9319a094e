package ai

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// CombatantState captures one combatant at planning time.
type CombatantState struct {
	Slot    battle.Slot
	Name    string
	Team    battle.Team
	HP      uint32
	MaxHP   uint32
	Defense uint32
	Alive   bool
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (c *CombatantState) HPPercent() float64 {
	if c.MaxHP == 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// WorldState is the snapshot the planner sees for one acting combatant.
//
// Invariant: Combatants is in slot order and includes Self.
type WorldState struct {
	Self       battle.Slot
	Team       battle.Team
	Round      uint32
	Combatants []*CombatantState
}

// Snapshot captures field from self's point of view.
//
// Precondition: field must not be nil.
// Postcondition: returns battle.ErrNoSuchCombatant if self is not on field.
func Snapshot(field *battle.Battlefield, self battle.Slot) (*WorldState, error) {
	me, ok := field.Get(self)
	if !ok {
		return nil, fmt.Errorf("ai.Snapshot: slot %d: %w", self, battle.ErrNoSuchCombatant)
	}
	ws := &WorldState{Self: self, Team: me.Team, Round: field.Round}
	for s, c := range field.All() {
		ws.Combatants = append(ws.Combatants, &CombatantState{
			Slot:    s,
			Name:    c.Name,
			Team:    c.Team,
			HP:      c.Health.Value(),
			MaxHP:   c.Health.Max(),
			Defense: c.Defense,
			Alive:   c.IsAlive(),
		})
	}
	return ws, nil
}

// Enemies returns the living combatants of the opposing team in slot order.
func (ws *WorldState) Enemies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if c.Alive && c.Team != ws.Team {
			out = append(out, c)
		}
	}
	return out
}

// Allies returns the living teammates of Self, excluding Self.
func (ws *WorldState) Allies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if c.Alive && c.Team == ws.Team && c.Slot != ws.Self {
			out = append(out, c)
		}
	}
	return out
}

// NearestEnemy returns the living enemy in the lowest slot, or nil.
func (ws *WorldState) NearestEnemy() *CombatantState {
	enemies := ws.Enemies()
	if len(enemies) == 0 {
		return nil
	}
	return enemies[0]
}

// WeakestEnemy returns the living enemy with the lowest HP percentage, or
// nil. Ties go to the lower slot.
func (ws *WorldState) WeakestEnemy() *CombatantState {
	enemies := ws.Enemies()
	if len(enemies) == 0 {
		return nil
	}
	weakest := enemies[0]
	for _, e := range enemies[1:] {
		if e.HPPercent() < weakest.HPPercent() {
			weakest = e
		}
	}
	return weakest
}

// ResolveTarget maps a target token to a slot. random_enemy draws from src.
//
// Postcondition: ok is false when no living enemy exists or the token is unknown.
func (ws *WorldState) ResolveTarget(token string, src dice.Source) (battle.Slot, bool) {
	var pick *CombatantState
	switch token {
	case TargetNearest:
		pick = ws.NearestEnemy()
	case TargetWeakest:
		pick = ws.WeakestEnemy()
	case TargetRandom:
		if enemies := ws.Enemies(); len(enemies) > 0 {
			pick = enemies[src.Intn(len(enemies))]
		}
	case TargetSelf:
		return ws.Self, true
	}
	if pick == nil {
		return 0, false
	}
	return pick.Slot, true
}
