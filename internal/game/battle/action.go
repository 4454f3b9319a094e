package battle

import (
	"cmp"
	"fmt"
	"slices"
)

// ActionKind identifies what a combatant intends to do this round.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionAttack
	ActionDefend
)

// String returns "attack", "defend" or "unknown".
func (k ActionKind) String() string {
	switch k {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	default:
		return "unknown"
	}
}

// Priority returns the ordering priority; higher resolves earlier.
//
// Postcondition: 10 for ActionDefend, 0 otherwise.
func (k ActionKind) Priority() int {
	if k == ActionDefend {
		return 10
	}
	return 0
}

// Action is one queued intent for a round. It names combatants by Slot only,
// so a target that dies before the action executes is detected, not dangled.
type Action struct {
	Kind   ActionKind
	Source Slot
	// Target is meaningful for ActionAttack only.
	Target Slot
}

// Attack returns an attack from source on target.
func Attack(source, target Slot) Action {
	return Action{Kind: ActionAttack, Source: source, Target: target}
}

// Defend returns a defend action for who.
func Defend(who Slot) Action {
	return Action{Kind: ActionDefend, Source: who}
}

// Priority returns a.Kind.Priority().
func (a Action) Priority() int { return a.Kind.Priority() }

// String renders the action as "Attack(0, 2)" or "Defend(1)".
func (a Action) String() string {
	switch a.Kind {
	case ActionAttack:
		return fmt.Sprintf("Attack(%d, %d)", a.Source, a.Target)
	case ActionDefend:
		return fmt.Sprintf("Defend(%d)", a.Source)
	default:
		return fmt.Sprintf("Unknown(%d)", a.Source)
	}
}

// validate checks that every slot a names exists on field.
func (a Action) validate(field *Battlefield) error {
	switch a.Kind {
	case ActionAttack:
		if _, err := field.lookup(a.Source); err != nil {
			return fmt.Errorf("%s source: %w", a, err)
		}
		if _, err := field.lookup(a.Target); err != nil {
			return fmt.Errorf("%s target: %w", a, err)
		}
	case ActionDefend:
		if _, err := field.lookup(a.Source); err != nil {
			return fmt.Errorf("%s source: %w", a, err)
		}
	default:
		return fmt.Errorf("%s: %w", a, ErrUnknownAction)
	}
	return nil
}

// Order returns a copy of actions sorted for execution: priority descending,
// then the source's current speed descending. Ties keep their input order, so
// ordering an already ordered list is a no-op.
//
// Postcondition: returns ErrNoSuchCombatant or ErrUnknownAction (wrapped) if
// any action is malformed; actions itself is never modified.
func Order(field *Battlefield, actions []Action) ([]Action, error) {
	for _, a := range actions {
		if err := a.validate(field); err != nil {
			return nil, err
		}
	}
	sorted := slices.Clone(actions)
	slices.SortStableFunc(sorted, func(x, y Action) int {
		if c := cmp.Compare(y.Priority(), x.Priority()); c != 0 {
			return c
		}
		sx, _ := field.Get(x.Source)
		sy, _ := field.Get(y.Source)
		return cmp.Compare(sy.Speed, sx.Speed)
	})
	return sorted, nil
}
