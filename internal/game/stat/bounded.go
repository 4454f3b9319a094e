// Package stat provides capped numeric values used for health, mana, and any
// other resource that must stay within a fixed range.
package stat

import (
	"fmt"
	"math"
)

// Bounded is a uint32 fixed between 0 and a maximum set at construction.
//
// Invariant: 0 <= Value() <= Max() at all times; Max() never changes.
type Bounded struct {
	value uint32
	max   uint32
}

// New returns a Bounded filled to max.
//
// Postcondition: Value() == Max() == max. max may be 0.
func New(max uint32) Bounded {
	return Bounded{value: max, max: max}
}

// NewAt returns a Bounded with the given maximum and a starting value clamped to it.
//
// Postcondition: Value() == min(value, max).
func NewAt(value, max uint32) Bounded {
	if value > max {
		value = max
	}
	return Bounded{value: value, max: max}
}

// Value returns the current value.
func (b Bounded) Value() uint32 { return b.value }

// Max returns the immutable maximum.
func (b Bounded) Max() uint32 { return b.max }

// IsZero reports whether the value has been depleted.
func (b Bounded) IsZero() bool { return b.value == 0 }

// Add returns a copy with amount added, saturating at Max.
//
// Postcondition: result.Value() == min(Max(), Value()+amount); never wraps.
func (b Bounded) Add(amount uint32) Bounded {
	if amount > math.MaxUint32-b.value {
		b.value = b.max
		return b
	}
	b.value = min(b.max, b.value+amount)
	return b
}

// Sub returns a copy with amount removed, saturating at 0.
//
// Postcondition: result.Value() == max(0, Value()-amount); never underflows.
func (b Bounded) Sub(amount uint32) Bounded {
	if amount >= b.value {
		b.value = 0
		return b
	}
	b.value -= amount
	return b
}

// String renders the value as "value/max".
func (b Bounded) String() string {
	return fmt.Sprintf("%d/%d", b.value, b.max)
}

// SaturatingAdd returns a+b, or math.MaxUint32 if the sum would wrap.
func SaturatingAdd(a, b uint32) uint32 {
	if b > math.MaxUint32-a {
		return math.MaxUint32
	}
	return a + b
}
