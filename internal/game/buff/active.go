package buff

import "slices"

// Active is one applied buff and its remaining rounds.
type Active struct {
	Kind      Kind
	Remaining uint32
}

// Set tracks the buffs currently applied to one combatant.
// It is not safe for concurrent use; the owning battlefield serialises access.
type Set struct {
	remaining map[Kind]uint32
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{remaining: make(map[Kind]uint32)}
}

// Apply inserts kind with duration, or refreshes an existing entry to the
// longer of the two durations. Durations never add up.
//
// Postcondition: Has(kind); Remaining(kind) == max(previous, duration).
func (s *Set) Apply(kind Kind, duration uint32) {
	if cur, ok := s.remaining[kind]; ok {
		s.remaining[kind] = max(cur, duration)
		return
	}
	s.remaining[kind] = duration
}

// Tick advances every timer by one round: buffs already at 0 are removed,
// all others are decremented. Returns the kinds removed, sorted.
//
// Postcondition: a buff applied with duration d survives d ticks (ending at 0)
// and is removed by tick d+1.
func (s *Set) Tick() []Kind {
	var expired []Kind
	for kind, left := range s.remaining {
		if left == 0 {
			expired = append(expired, kind)
			delete(s.remaining, kind)
			continue
		}
		s.remaining[kind] = left - 1
	}
	slices.Sort(expired)
	return expired
}

// Has reports whether kind is active.
func (s *Set) Has(kind Kind) bool {
	_, ok := s.remaining[kind]
	return ok
}

// Remaining returns the rounds left for kind and whether it is active.
func (s *Set) Remaining(kind Kind) (uint32, bool) {
	left, ok := s.remaining[kind]
	return left, ok
}

// Len returns the number of active buffs.
func (s *Set) Len() int { return len(s.remaining) }

// All returns a snapshot of the active buffs ordered by Kind.
func (s *Set) All() []Active {
	out := make([]Active, 0, len(s.remaining))
	for kind, left := range s.remaining {
		out = append(out, Active{Kind: kind, Remaining: left})
	}
	slices.SortFunc(out, func(a, b Active) int {
		switch {
		case a.Kind < b.Kind:
			return -1
		case a.Kind > b.Kind:
			return 1
		}
		return 0
	})
	return out
}
