// Package dice provides the randomness abstraction used by the combat
// resolver and the roster generator, plus dice-expression rolls for stat
// generation.
package dice

import "fmt"

// Source is the randomness provider for every random decision in a battle.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Uniform samples [0, n) from src. A zero bound always yields 0 and never
// reaches src, so a zero attack or defense stat cannot trip Intn's precondition.
//
// Postcondition: n == 0 → 0; otherwise result in [0, n).
func Uniform(src Source, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return uint32(src.Intn(int(n)))
}

// RollResult holds the audit trail for a single dice expression evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // kept die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all kept dice plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns an audit string such as "2d6+3 → [4 5] +3 = 12".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}
