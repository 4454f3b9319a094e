// Package battle implements the turn-resolution core: combatants grouped into
// two teams on a shared Battlefield, a queue of Attack/Defend actions ordered
// by priority and speed, dead-target retargeting, the damage formula, and the
// per-round state machine that decides when a side has won.
//
// Combatants are always addressed by Slot, their stable position on the
// Battlefield, never by pointer held across an action's lifetime.
package battle

import "errors"

// Team is one of the two opposing sides of an encounter.
type Team int

const (
	Player Team = iota
	Monster
)

// String returns "player" or "monster".
func (t Team) String() string {
	switch t {
	case Player:
		return "player"
	case Monster:
		return "monster"
	default:
		return "unknown"
	}
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == Player {
		return Monster
	}
	return Player
}

// Slot is the stable positional handle of a combatant on a Battlefield.
type Slot int

var (
	// ErrNoSuchCombatant is returned when an action names a slot that does not exist.
	ErrNoSuchCombatant = errors.New("battle: no such combatant")
	// ErrNoTargets is returned when a dead target must be replaced but the
	// source has no living opponents. The victory check before every action
	// makes this unreachable unless that check is broken.
	ErrNoTargets = errors.New("battle: no living opponents to retarget to")
	// ErrUnknownAction is returned for an Action whose Kind is not Attack or Defend.
	ErrUnknownAction = errors.New("battle: unknown action kind")
)
