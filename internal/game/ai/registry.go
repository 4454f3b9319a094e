package ai

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Registry indexes Planners by domain ID.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	planners map[string]*Planner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register creates and stores a Planner for domain.
//
// Postcondition: returns an error on domain ID collision.
func (r *Registry) Register(domain *Domain, caller ScriptCaller, src dice.Source) error {
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai.Registry: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain, caller, src)
	return nil
}

// PlannerFor returns the Planner for domainID.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// NewRegistryFromDomains registers every domain in order.
func NewRegistryFromDomains(domains []*Domain, caller ScriptCaller, src dice.Source) (*Registry, error) {
	r := NewRegistry()
	for _, d := range domains {
		if err := r.Register(d, caller, src); err != nil {
			return nil, err
		}
	}
	return r, nil
}
