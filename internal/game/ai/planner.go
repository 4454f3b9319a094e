package ai

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// ScriptCaller evaluates Lua preconditions.
type ScriptCaller interface {
	// CallHook calls hook in scope's VM; (LNil, nil) when undefined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive step of a plan.
type PlannedAction struct {
	Action string
	Target battle.Slot
}

// maxSteps bounds decomposition so a cyclic domain cannot spin forever.
const maxSteps = 32

// Planner decomposes one Domain for a single combatant.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	src    dice.Source
}

// NewPlanner constructs a Planner. Preconditions run in the VM scoped to
// domain.ID.
//
// Precondition: domain, caller and src must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, src dice.Source) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	if src == nil {
		panic("ai.NewPlanner: src must not be nil")
	}
	return &Planner{domain: domain, caller: caller, src: src}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan decomposes RootTask against ws into primitive actions.
//
// Operators whose target token resolves to nobody are dropped. Lua failures
// count as a false precondition.
//
// Precondition: ws must not be nil.
// Postcondition: returns a non-nil slice, possibly empty.
func (p *Planner) Plan(ws *WorldState) ([]PlannedAction, error) {
	if ws == nil {
		return nil, errors.New("ai.Planner.Plan: state must not be nil")
	}

	queue := []string{RootTask}
	result := []PlannedAction{}
	for steps := 0; len(queue) > 0 && steps < maxSteps; steps++ {
		current := queue[0]
		queue = queue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			if op.Action == ActionDefend {
				result = append(result, PlannedAction{Action: ActionDefend, Target: ws.Self})
				continue
			}
			if target, ok := ws.ResolveTarget(op.Target, p.src); ok {
				result = append(result, PlannedAction{Action: op.Action, Target: target})
			}
			continue
		}

		method := p.applicable(current, ws)
		if method == nil {
			continue
		}
		queue = append(append([]string{}, method.Subtasks...), queue...)
	}
	return result, nil
}

// applicable returns the first method for taskID whose precondition holds.
func (p *Planner) applicable(taskID string, ws *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		val, err := p.caller.CallHook(p.domain.ID, m.Precondition, lua.LNumber(ws.Self))
		if err == nil && val == lua.LTrue {
			return m
		}
	}
	return nil
}
