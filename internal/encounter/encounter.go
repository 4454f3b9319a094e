// Package encounter drives one fight from the first round to a decided
// status: it gathers an action from every living combatant, hands the round
// to the battle resolver and reports the result to a Presenter.
package encounter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
)

// ErrRoundLimit is returned when an encounter runs past its configured
// maximum number of rounds.
var ErrRoundLimit = errors.New("encounter: round limit exceeded")

// ErrQuit is returned by a Decider whose player chose to leave. Aborting
// for it, or for cancellation, is logged at info level.
var ErrQuit = errors.New("encounter: player quit")

// ErrNoDecider is returned when a living combatant's team has no Decider.
var ErrNoDecider = errors.New("encounter: no decider for team")

// Decider chooses a combatant's action for the current round.
type Decider interface {
	// Decide returns self's action.
	//
	// Precondition: self is a living combatant on field.
	Decide(ctx context.Context, field *battle.Battlefield, self battle.Slot) (battle.Action, error)
}

// Presenter renders an encounter as it unfolds.
type Presenter interface {
	// Round shows the battlefield after buffs tick and before actions are
	// collected.
	Round(field *battle.Battlefield)
	// Events shows a round's narration in resolution order.
	Events(events []battle.Event)
	// Outcome shows the final status.
	Outcome(status battle.Status)
}

// Lifecycle states.
const (
	StateCollecting = "collecting"
	StateResolving  = "resolving"
	StateFinished   = "finished"
	StateAborted    = "aborted"
)

const (
	eventResolve  = "resolve"
	eventContinue = "continue"
	eventFinish   = "finish"
	eventAbort    = "abort"
)

// Encounter owns a battlefield for the length of one fight.
type Encounter struct {
	ID uuid.UUID

	field     *battle.Battlefield
	resolver  *battle.Resolver
	deciders  map[battle.Team]Decider
	presenter Presenter
	maxRounds uint32
	machine   *fsm.FSM
	logger    *zap.Logger
}

// New creates an Encounter in the collecting state. maxRounds of 0 means no
// limit.
//
// Precondition: field, resolver, presenter and logger must be non-nil;
// deciders must have an entry for every team with a living member.
func New(field *battle.Battlefield, resolver *battle.Resolver, deciders map[battle.Team]Decider, presenter Presenter, maxRounds uint32, logger *zap.Logger) *Encounter {
	if field == nil {
		panic("encounter.New: field must not be nil")
	}
	if resolver == nil {
		panic("encounter.New: resolver must not be nil")
	}
	if presenter == nil {
		panic("encounter.New: presenter must not be nil")
	}
	if logger == nil {
		panic("encounter.New: logger must not be nil")
	}
	id := uuid.New()
	e := &Encounter{
		ID:        id,
		field:     field,
		resolver:  resolver,
		deciders:  deciders,
		presenter: presenter,
		maxRounds: maxRounds,
		logger:    logger.With(zap.String("encounter", id.String())),
	}
	e.machine = fsm.NewFSM(
		StateCollecting,
		fsm.Events{
			{Name: eventResolve, Src: []string{StateCollecting}, Dst: StateResolving},
			{Name: eventContinue, Src: []string{StateResolving}, Dst: StateCollecting},
			{Name: eventFinish, Src: []string{StateResolving}, Dst: StateFinished},
			{Name: eventAbort, Src: []string{StateCollecting, StateResolving}, Dst: StateAborted},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				e.logger.Debug("encounter transition",
					zap.String("from", ev.Src),
					zap.String("to", ev.Dst),
					zap.Uint32("round", e.field.Round),
				)
			},
		},
	)
	return e
}

// State returns the current lifecycle state.
func (e *Encounter) State() string { return e.machine.Current() }

// Field returns the battlefield the encounter owns.
func (e *Encounter) Field() *battle.Battlefield { return e.field }

// Run plays rounds until a team wins, the context is cancelled, a collaborator
// fails or the round limit is exceeded.
//
// Precondition: Run is called at most once.
// Postcondition: on success the status is decided and State is finished;
// on error State is aborted.
func (e *Encounter) Run(ctx context.Context) (battle.Status, error) {
	e.logger.Info("encounter started",
		zap.Int("players", len(e.field.Living(battle.Player))),
		zap.Int("monsters", len(e.field.Living(battle.Monster))),
		zap.Uint32("max_rounds", e.maxRounds),
	)
	for {
		if err := ctx.Err(); err != nil {
			return e.abort(ctx, err)
		}
		if e.maxRounds > 0 && e.field.Round > e.maxRounds {
			return e.abort(ctx, fmt.Errorf("round %d of %d: %w", e.field.Round, e.maxRounds, ErrRoundLimit))
		}

		e.resolver.BeginRound(e.field)
		e.presenter.Round(e.field)
		actions, err := e.collect(ctx)
		if err != nil {
			return e.abort(ctx, err)
		}

		if err := e.machine.Event(ctx, eventResolve); err != nil {
			return e.abort(ctx, err)
		}
		status, events, err := e.resolver.RunTurn(e.field, actions)
		e.presenter.Events(events)
		if err != nil {
			return e.abort(ctx, err)
		}

		if status.Decided() {
			if err := e.machine.Event(ctx, eventFinish); err != nil {
				return e.abort(ctx, err)
			}
			e.presenter.Outcome(status)
			e.logger.Info("encounter finished",
				zap.Stringer("status", status),
				zap.Uint32("round", e.field.Round),
			)
			return status, nil
		}
		if err := e.machine.Event(ctx, eventContinue); err != nil {
			return e.abort(ctx, err)
		}
	}
}

// collect asks every living combatant for an action, in slot order.
func (e *Encounter) collect(ctx context.Context) ([]battle.Action, error) {
	var actions []battle.Action
	for slot, c := range e.field.All() {
		if !c.IsAlive() {
			continue
		}
		d, ok := e.deciders[c.Team]
		if !ok || d == nil {
			return nil, fmt.Errorf("%s (slot %d, %s): %w", c.Name, slot, c.Team, ErrNoDecider)
		}
		a, err := d.Decide(ctx, e.field, slot)
		if err != nil {
			return nil, fmt.Errorf("deciding for %s (slot %d): %w", c.Name, slot, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (e *Encounter) abort(ctx context.Context, cause error) (battle.Status, error) {
	// The caller's context may already be cancelled.
	if err := e.machine.Event(context.WithoutCancel(ctx), eventAbort); err != nil {
		e.logger.Warn("abort transition failed", zap.Error(err))
	}
	log := e.logger.Error
	if errors.Is(cause, ErrQuit) || errors.Is(cause, context.Canceled) {
		log = e.logger.Info
	}
	log("encounter aborted",
		zap.Uint32("round", e.field.Round),
		zap.Error(cause),
	)
	return battle.Continuing, cause
}
