// Package buff implements timed, non-stacking modifiers on combatants.
//
// A Set only records which kinds are active and for how many more rounds; what
// a kind actually does lives in a Registry of Defs, consulted by the damage
// formula.
package buff

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names a buff. Two buffs of the same Kind never coexist on one combatant.
type Kind string

// Defend is the buff granted by the defend action.
const Defend Kind = "defend"

// Def is the static definition of a buff kind, loadable from YAML.
type Def struct {
	Kind        Kind   `yaml:"kind"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Duration is the number of rounds granted when the buff is applied by an action.
	Duration     uint32 `yaml:"duration"`
	DefenseBonus uint32 `yaml:"defense_bonus"`
	AttackBonus  uint32 `yaml:"attack_bonus"`
}

// Validate checks the definition's invariants.
//
// Postcondition: nil iff Kind and Name are non-empty.
func (d *Def) Validate() error {
	if d.Kind == "" {
		return fmt.Errorf("buff def: kind must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("buff def %q: name must not be empty", d.Kind)
	}
	return nil
}

// DefendDef returns the built-in defend buff: +10 defense for 3 rounds.
func DefendDef() *Def {
	return &Def{
		Kind:         Defend,
		Name:         "Defending",
		Description:  "Braced for impact.",
		Duration:     3,
		DefenseBonus: 10,
	}
}

// Registry holds all known Defs keyed by Kind.
type Registry struct {
	defs map[Kind]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Kind]*Def)}
}

// DefaultRegistry returns a Registry holding the built-in definitions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(DefendDef())
	return r
}

// Register adds def, overwriting any existing entry of the same Kind.
//
// Precondition: def must not be nil.
func (r *Registry) Register(def *Def) {
	r.defs[def.Kind] = def
}

// Get returns the Def for kind, or (nil, false) if unknown.
func (r *Registry) Get(kind Kind) (*Def, bool) {
	d, ok := r.defs[kind]
	return d, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.defs))
	for k := range r.defs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// LoadDirectory reads every *.yaml file in dir as a Def and registers it on
// top of the built-in definitions, so a file may retune "defend".
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Registry, or an error naming the first bad file.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading buff dir %q: %w", dir, err)
	}
	reg := DefaultRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
