// Package ai implements a Hierarchical Task Network (HTN) planner that picks
// each AI-driven combatant's action for the round.
//
// A domain decomposes the root task "behave" through ordered methods into
// primitive operators. Method preconditions are Lua hooks; operators map to
// battle actions.
package ai

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RootTask is the task every plan starts from.
const RootTask = "behave"

// Operator actions.
const (
	ActionAttack = "attack"
	ActionDefend = "defend"
)

// Target tokens understood by WorldState.ResolveTarget.
const (
	TargetNearest = "nearest_enemy"
	TargetWeakest = "weakest_enemy"
	TargetRandom  = "random_enemy"
	TargetSelf    = "self"
)

// Task is an abstract goal decomposed by methods.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtask or operator IDs.
// An empty Precondition always applies.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator is a primitive step that becomes a battle action.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"`
	Target string `yaml:"target"`
}

func (op *Operator) validate() error {
	switch op.Action {
	case ActionAttack:
		switch op.Target {
		case TargetNearest, TargetWeakest, TargetRandom:
			return nil
		default:
			return fmt.Errorf("operator %q: attack target %q must be an enemy token", op.ID, op.Target)
		}
	case ActionDefend:
		if op.Target != "" && op.Target != TargetSelf {
			return fmt.Errorf("operator %q: defend only targets self", op.ID)
		}
		return nil
	default:
		return fmt.Errorf("operator %q: unknown action %q", op.ID, op.Action)
	}
}

// Domain is one HTN domain loaded from YAML.
//
// Invariant: Task, Method and Operator IDs are unique within their kind.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// uniqueIDs returns the set of ids, or an error naming the first duplicate.
func uniqueIDs(domain, kind string, ids []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("ai.Domain %q: %s with empty ID", domain, kind)
		}
		if _, dup := set[id]; dup {
			return nil, fmt.Errorf("ai.Domain %q: duplicate %s ID %q", domain, kind, id)
		}
		set[id] = struct{}{}
	}
	return set, nil
}

// Validate checks required fields, uniqueness, operator shape and every
// cross reference, and that RootTask exists.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: ID must not be empty")
	}

	taskIDs := make([]string, len(d.Tasks))
	for i, t := range d.Tasks {
		taskIDs[i] = t.ID
	}
	tasks, err := uniqueIDs(d.ID, "task", taskIDs)
	if err != nil {
		return err
	}
	if _, ok := tasks[RootTask]; !ok {
		return fmt.Errorf("ai.Domain %q: missing root task %q", d.ID, RootTask)
	}

	methodIDs := make([]string, len(d.Methods))
	for i, m := range d.Methods {
		methodIDs[i] = m.ID
	}
	if _, err := uniqueIDs(d.ID, "method", methodIDs); err != nil {
		return err
	}

	opIDs := make([]string, len(d.Operators))
	for i, op := range d.Operators {
		opIDs[i] = op.ID
	}
	ops, err := uniqueIDs(d.ID, "operator", opIDs)
	if err != nil {
		return err
	}
	for _, op := range d.Operators {
		if err := op.validate(); err != nil {
			return fmt.Errorf("ai.Domain %q: %w", d.ID, err)
		}
	}

	for _, m := range d.Methods {
		if _, ok := tasks[m.TaskID]; !ok {
			return fmt.Errorf("ai.Domain %q method %q: unknown task %q", d.ID, m.ID, m.TaskID)
		}
		if len(m.Subtasks) == 0 {
			return fmt.Errorf("ai.Domain %q method %q: subtasks must not be empty", d.ID, m.ID)
		}
		for _, sub := range m.Subtasks {
			_, isTask := tasks[sub]
			_, isOp := ops[sub]
			if !isTask && !isOp {
				return fmt.Errorf("ai.Domain %q method %q: subtask %q is neither a task nor an operator", d.ID, m.ID, sub)
			}
		}
	}
	return nil
}

// OperatorByID returns the operator with the given ID.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns the methods for taskID in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

type domainFile struct {
	Domain *Domain `yaml:"domain"`
}

// LoadDomains reads every *.yaml file in dir as a domain file with a
// top-level "domain" key.
//
// Precondition: dir must be a readable directory.
// Postcondition: every returned Domain has passed Validate; (nil, nil) when
// dir has no .yaml files.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: reading %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: reading %s: %w", e.Name(), err)
		}
		var f domainFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: parsing %s: %w", e.Name(), err)
		}
		if f.Domain == nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s missing top-level 'domain' key", e.Name())
		}
		if err := f.Domain.Validate(); err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s: %w", e.Name(), err)
		}
		domains = append(domains, f.Domain)
	}
	return domains, nil
}
