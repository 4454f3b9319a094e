package ai

import (
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// FieldView exposes a Battlefield to Lua preconditions through scripting.View.
type FieldView struct {
	Field *battle.Battlefield
}

// Combatant implements scripting.View.
func (v FieldView) Combatant(slot int) (*scripting.CombatantInfo, bool) {
	c, ok := v.Field.Get(battle.Slot(slot))
	if !ok {
		return nil, false
	}
	info := &scripting.CombatantInfo{
		Slot:    slot,
		Name:    c.Name,
		Team:    c.Team.String(),
		HP:      int(c.Health.Value()),
		MaxHP:   int(c.Health.Max()),
		MP:      int(c.Mana.Value()),
		MaxMP:   int(c.Mana.Max()),
		Attack:  int(c.Attack),
		Defense: int(c.Defense),
		Speed:   int(c.Speed),
		Luck:    int(c.Luck),
		Alive:   c.IsAlive(),
	}
	if c.Buffs != nil {
		for _, b := range c.Buffs.All() {
			info.Buffs = append(info.Buffs, string(b.Kind))
		}
	}
	return info, true
}

// Living implements scripting.View. Unknown team names yield nil.
func (v FieldView) Living(team string) []int {
	var t battle.Team
	switch team {
	case battle.Player.String():
		t = battle.Player
	case battle.Monster.String():
		t = battle.Monster
	default:
		return nil
	}
	var out []int
	for _, s := range v.Field.Living(t) {
		out = append(out, int(s))
	}
	return out
}

// Round implements scripting.View.
func (v FieldView) Round() int { return int(v.Field.Round) }
