package ai_test

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/stat"
)

// fixedSrc returns min(val, n-1) for every Intn call.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int { return min(f.val, n-1) }

// hookTable answers CallHook from a map of hook name to result and records
// every call.
type hookTable struct {
	results map[string]lua.LValue
	calls   []string
	scopes  []string
}

func (h *hookTable) CallHook(scope, hook string, _ ...lua.LValue) (lua.LValue, error) {
	h.calls = append(h.calls, hook)
	h.scopes = append(h.scopes, scope)
	if v, ok := h.results[hook]; ok {
		return v, nil
	}
	return lua.LNil, nil
}

// skirmish lays out Ragnar(0) and Alena(1) against Slime(2, 3/10 HP) and
// Bat(3, 6/10 HP).
func skirmish() *battle.Battlefield {
	slime := battle.NewCombatant("Slime", battle.Monster)
	slime.Health = stat.NewAt(3, 10)
	bat := battle.NewCombatant("Bat", battle.Monster)
	bat.Health = stat.NewAt(6, 10)
	return battle.NewBattlefield(
		battle.NewCombatant("Ragnar", battle.Player),
		battle.NewCombatant("Alena", battle.Player),
		slime,
		bat,
	)
}
