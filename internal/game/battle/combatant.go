package battle

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/buff"
	"github.com/cory-johannsen/skirmish/internal/game/stat"
)

// DefaultStat is the base value of every stat for a freshly created combatant.
const DefaultStat = 10

// Combatant is one participant in an encounter.
//
// Invariant: alive iff Health.Value() > 0. Dead combatants stay on the
// battlefield and are only excluded from acting, targeting and victory checks.
type Combatant struct {
	Name   string
	Health stat.Bounded
	Mana   stat.Bounded
	Team   Team

	// Attack sets how much damage is dealt.
	Attack uint32
	// Defense sets how much damage is soaked.
	Defense uint32
	// Speed decides who acts first among actions of equal priority.
	Speed uint32
	// Luck is carried for roster content; the damage formula does not read it.
	Luck uint32

	Buffs *buff.Set
}

// NewCombatant returns a combatant with every stat at DefaultStat and full
// 10/10 health and mana.
func NewCombatant(name string, team Team) *Combatant {
	return &Combatant{
		Name:    name,
		Health:  stat.New(DefaultStat),
		Mana:    stat.New(DefaultStat),
		Team:    team,
		Attack:  DefaultStat,
		Defense: DefaultStat,
		Speed:   DefaultStat,
		Luck:    DefaultStat,
		Buffs:   buff.NewSet(),
	}
}

// IsAlive reports whether the combatant still has health.
func (c *Combatant) IsAlive() bool { return !c.Health.IsZero() }

// TakeDamage removes amount from health, saturating at zero.
// Callers check IsAlive afterwards to detect a death.
func (c *Combatant) TakeDamage(amount uint32) {
	c.Health = c.Health.Sub(amount)
}

// AddBuff applies kind for duration rounds, refreshing to the longer duration
// if already present.
func (c *Combatant) AddBuff(kind buff.Kind, duration uint32) {
	c.buffs().Apply(kind, duration)
}

// TickBuffs advances the combatant's buff timers by one round and returns the
// kinds that expired.
func (c *Combatant) TickBuffs() []buff.Kind {
	return c.buffs().Tick()
}

func (c *Combatant) buffs() *buff.Set {
	if c.Buffs == nil {
		c.Buffs = buff.NewSet()
	}
	return c.Buffs
}

// String renders "Name: X, HP: v/m, MP: v/m" followed by active buffs.
func (c *Combatant) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s, HP: %s, MP: %s", c.Name, c.Health, c.Mana)
	if c.Buffs != nil && c.Buffs.Len() > 0 {
		parts := make([]string, 0, c.Buffs.Len())
		for _, a := range c.Buffs.All() {
			parts = append(parts, fmt.Sprintf("%s:%d", a.Kind, a.Remaining))
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, " "))
	}
	return b.String()
}
