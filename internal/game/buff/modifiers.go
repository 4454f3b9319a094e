package buff

import "github.com/cory-johannsen/skirmish/internal/game/stat"

// DefenseBonus returns the total defense added by the active buffs in s.
// Kinds missing from reg contribute nothing.
func DefenseBonus(s *Set, reg *Registry) uint32 {
	var total uint32
	for kind := range s.remaining {
		if def, ok := reg.Get(kind); ok {
			total = stat.SaturatingAdd(total, def.DefenseBonus)
		}
	}
	return total
}

// AttackBonus returns the total attack added by the active buffs in s.
func AttackBonus(s *Set, reg *Registry) uint32 {
	var total uint32
	for kind := range s.remaining {
		if def, ok := reg.Get(kind); ok {
			total = stat.SaturatingAdd(total, def.AttackBonus)
		}
	}
	return total
}
