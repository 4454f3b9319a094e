package battle

import (
	"fmt"
	"iter"
	"strings"
)

// Battlefield is the authoritative state of one encounter.
//
// Invariant: slots are stable for the whole encounter; combatants are only
// mutated in place, never removed or reordered. Round starts at 1.
type Battlefield struct {
	combatants []*Combatant
	Round      uint32
}

// NewBattlefield returns a battlefield at round 1 holding combatants in slot order.
func NewBattlefield(combatants ...*Combatant) *Battlefield {
	b := &Battlefield{Round: 1}
	for _, c := range combatants {
		b.Add(c)
	}
	return b
}

// Add appends c and returns its slot. Only call while setting up an encounter.
//
// Precondition: c must not be nil.
func (b *Battlefield) Add(c *Combatant) Slot {
	b.combatants = append(b.combatants, c)
	return Slot(len(b.combatants) - 1)
}

// Len returns the number of combatants, living or dead.
func (b *Battlefield) Len() int { return len(b.combatants) }

// Get returns the combatant at s, or (nil, false) if s is out of range.
func (b *Battlefield) Get(s Slot) (*Combatant, bool) {
	if s < 0 || int(s) >= len(b.combatants) {
		return nil, false
	}
	return b.combatants[s], true
}

// lookup is Get with ErrNoSuchCombatant for the resolver.
func (b *Battlefield) lookup(s Slot) (*Combatant, error) {
	c, ok := b.Get(s)
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", s, ErrNoSuchCombatant)
	}
	return c, nil
}

// All yields every combatant in ascending slot order.
func (b *Battlefield) All() iter.Seq2[Slot, *Combatant] {
	return func(yield func(Slot, *Combatant) bool) {
		for i, c := range b.combatants {
			if !yield(Slot(i), c) {
				return
			}
		}
	}
}

// Members yields the combatants of team, living or dead, in ascending slot order.
// The sequence is restartable.
func (b *Battlefield) Members(team Team) iter.Seq2[Slot, *Combatant] {
	return func(yield func(Slot, *Combatant) bool) {
		for s, c := range b.All() {
			if c.Team != team {
				continue
			}
			if !yield(s, c) {
				return
			}
		}
	}
}

// Opponents yields the members of the team opposing team.
func (b *Battlefield) Opponents(team Team) iter.Seq2[Slot, *Combatant] {
	return b.Members(team.Opponent())
}

// Living returns the slots of team's living members in ascending order.
func (b *Battlefield) Living(team Team) []Slot {
	var out []Slot
	for s, c := range b.Members(team) {
		if c.IsAlive() {
			out = append(out, s)
		}
	}
	return out
}

// TeamHasLost reports whether team has no living member. It is evaluated
// fresh on every call.
func (b *Battlefield) TeamHasLost(team Team) bool {
	for _, c := range b.Members(team) {
		if c.IsAlive() {
			return false
		}
	}
	return true
}

// AdvanceRound increments the round counter.
func (b *Battlefield) AdvanceRound() { b.Round++ }

// String renders the round number followed by both teams.
func (b *Battlefield) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Round %d\n", b.Round)
	sb.WriteString("Characters:\n")
	for _, c := range b.Members(Player) {
		fmt.Fprintf(&sb, "  %s\n", c)
	}
	sb.WriteString("Monsters:\n")
	for _, c := range b.Members(Monster) {
		fmt.Fprintf(&sb, "  %s\n", c)
	}
	return sb.String()
}
