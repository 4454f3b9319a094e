package battle_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/buff"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/stat"
)

// fixedSrc returns val for every Intn call.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// scriptedSrc returns vals in order and records every bound it was asked for.
type scriptedSrc struct {
	t      *testing.T
	vals   []int
	bounds []int
}

func (s *scriptedSrc) Intn(n int) int {
	s.bounds = append(s.bounds, n)
	if len(s.vals) == 0 {
		s.t.Fatalf("scriptedSrc exhausted (bound %d)", n)
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v
}

func newResolver(src dice.Source) *battle.Resolver {
	return battle.NewResolver(src, buff.DefaultRegistry(), zap.NewNop())
}

func player(name string) *battle.Combatant {
	return battle.NewCombatant(name, battle.Player)
}

func monster(name string) *battle.Combatant {
	return battle.NewCombatant(name, battle.Monster)
}

func withHealth(c *battle.Combatant, value uint32) *battle.Combatant {
	c.Health = stat.NewAt(value, c.Health.Max())
	return c
}
