package battle

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// ResolveTarget returns to if it is still alive; otherwise a living opponent
// of from's team chosen uniformly at random with src.
//
// Precondition: from and to exist on field.
// Postcondition: the returned slot is alive, or ErrNoTargets is returned.
func ResolveTarget(field *Battlefield, src dice.Source, from, to Slot) (Slot, error) {
	source, err := field.lookup(from)
	if err != nil {
		return 0, err
	}
	target, err := field.lookup(to)
	if err != nil {
		return 0, err
	}
	if target.IsAlive() {
		return to, nil
	}

	pool := field.Living(source.Team.Opponent())
	if len(pool) == 0 {
		return 0, fmt.Errorf("%s has no target: %w", source.Name, ErrNoTargets)
	}
	return pool[src.Intn(len(pool))], nil
}
