package battle

import (
	"fmt"

	"go.uber.org/zap"
)

// Status is the outcome of one resolved turn.
type Status int

const (
	Continuing Status = iota
	PlayerVictory
	MonsterVictory
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case Continuing:
		return "continuing"
	case PlayerVictory:
		return "player victory"
	case MonsterVictory:
		return "monster victory"
	default:
		return "unknown"
	}
}

// Decided reports whether s ends the encounter.
func (s Status) Decided() bool { return s != Continuing }

// Victor returns the winning status for field, or Continuing if both teams
// still have a living member. A wiped monster team is checked first.
func Victor(field *Battlefield) Status {
	switch {
	case field.TeamHasLost(Monster):
		return PlayerVictory
	case field.TeamHasLost(Player):
		return MonsterVictory
	default:
		return Continuing
	}
}

// BeginRound ticks every combatant's buffs. Call it at the start of each
// round, before the battlefield is shown or actions are chosen, so both see
// post-tick state.
//
// Precondition: field must not be nil.
// Postcondition: expired buffs are gone; the round counter is unchanged.
func (r *Resolver) BeginRound(field *Battlefield) {
	for _, c := range field.All() {
		for _, kind := range c.TickBuffs() {
			r.logger.Debug("buff expired",
				zap.Uint32("round", field.Round),
				zap.String("combatant", c.Name),
				zap.String("buff", string(kind)),
			)
		}
	}
}

// RunTurn resolves one round whose buffs have already ticked (see BeginRound):
//  1. actions are ordered (see Order);
//  2. before each action the victory check runs and returns early if decided,
//     discarding the rest; dead sources are skipped; otherwise the action
//     is dispatched;
//  3. after the loop the victory check runs once more;
//  4. if undecided the round counter advances.
//
// Malformed actions are rejected before any state changes.
//
// Precondition: field must not be nil.
// Postcondition: returns the narration in resolution order and the status;
// on error the encounter must be abandoned.
func (r *Resolver) RunTurn(field *Battlefield, actions []Action) (Status, []Event, error) {
	ordered, err := Order(field, actions)
	if err != nil {
		return Continuing, nil, fmt.Errorf("ordering round %d: %w", field.Round, err)
	}

	var events []Event
	for _, a := range ordered {
		if status := Victor(field); status.Decided() {
			r.logger.Debug("battle decided mid-round",
				zap.Uint32("round", field.Round),
				zap.Stringer("status", status),
			)
			return status, events, nil
		}

		src, _ := field.Get(a.Source)
		if !src.IsAlive() {
			events = append(events, Event{
				Kind:      EventSkip,
				Round:     field.Round,
				Actor:     a.Source,
				ActorName: src.Name,
				Target:    a.Target,
				Narrative: fmt.Sprintf("%s cannot act.", src.Name),
			})
			continue
		}

		var evs []Event
		switch a.Kind {
		case ActionAttack:
			evs, err = r.ResolveAttack(field, a.Source, a.Target)
		case ActionDefend:
			evs, err = r.ResolveDefend(field, a.Source)
		default:
			err = fmt.Errorf("%s: %w", a, ErrUnknownAction)
		}
		if err != nil {
			return Continuing, events, fmt.Errorf("round %d, %s: %w", field.Round, a, err)
		}
		events = append(events, evs...)
	}

	if status := Victor(field); status.Decided() {
		return status, events, nil
	}
	field.AdvanceRound()
	return Continuing, events, nil
}
