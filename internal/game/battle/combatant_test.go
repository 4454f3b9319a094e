package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/buff"
)

func TestNewCombatant_Defaults(t *testing.T) {
	c := battle.NewCombatant("Bob", battle.Monster)
	assert.Equal(t, "Bob", c.Name)
	assert.Equal(t, battle.Monster, c.Team)
	assert.Equal(t, "10/10", c.Health.String())
	assert.Equal(t, "10/10", c.Mana.String())
	assert.Equal(t, uint32(10), c.Attack)
	assert.Equal(t, uint32(10), c.Defense)
	assert.Equal(t, uint32(10), c.Speed)
	assert.Equal(t, uint32(10), c.Luck)
	assert.True(t, c.IsAlive())
}

func TestCombatant_TakeDamage_Kills(t *testing.T) {
	c := monster("Bob")
	c.TakeDamage(1_000_000)
	assert.False(t, c.IsAlive())
	assert.Equal(t, uint32(0), c.Health.Value())
}

func TestProperty_Combatant_AliveIffHealthPositive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := player("X")
		c.TakeDamage(rapid.Uint32Range(0, 20).Draw(rt, "dmg"))
		assert.Equal(rt, c.Health.Value() > 0, c.IsAlive())
	})
}

func TestCombatant_AddBuff_RefreshNotStack(t *testing.T) {
	c := player("Alena")
	c.AddBuff(buff.Defend, 3)
	c.AddBuff(buff.Defend, 3)
	left, ok := c.Buffs.Remaining(buff.Defend)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), left)
}

func TestCombatant_NilBuffs_LazilyCreated(t *testing.T) {
	c := &battle.Combatant{Name: "Bare"}
	assert.Empty(t, c.TickBuffs())
	c.AddBuff(buff.Defend, 1)
	assert.True(t, c.Buffs.Has(buff.Defend))
}

func TestCombatant_TickBuffs_Lifetime(t *testing.T) {
	c := player("Ragnar")
	c.AddBuff(buff.Defend, 2)
	assert.Empty(t, c.TickBuffs())
	assert.Empty(t, c.TickBuffs())
	assert.True(t, c.Buffs.Has(buff.Defend))
	assert.Equal(t, []buff.Kind{buff.Defend}, c.TickBuffs())
	assert.False(t, c.Buffs.Has(buff.Defend))
}

func TestCombatant_String(t *testing.T) {
	c := player("Ragnar")
	c.TakeDamage(3)
	assert.Equal(t, "Name: Ragnar, HP: 7/10, MP: 10/10", c.String())
	c.AddBuff(buff.Defend, 3)
	assert.Equal(t, "Name: Ragnar, HP: 7/10, MP: 10/10 [defend:3]", c.String())
}

func TestTeam(t *testing.T) {
	assert.Equal(t, battle.Monster, battle.Player.Opponent())
	assert.Equal(t, battle.Player, battle.Monster.Opponent())
	assert.Equal(t, "player", battle.Player.String())
	assert.Equal(t, "monster", battle.Monster.String())
}
