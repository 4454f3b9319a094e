// Package roster loads combatant name pools from YAML and samples a fresh
// Battlefield from them for each encounter.
package roster

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// ErrPoolTooSmall is returned when a team's pool has fewer entries than the
// number of combatants requested.
var ErrPoolTooSmall = errors.New("roster: pool too small")

// Stats holds optional per-entry stat overrides. Each value is a flat number
// ("14") or a dice expression ("2d6+4"); empty keeps battle.DefaultStat.
type Stats struct {
	Health  string `yaml:"health"`
	Mana    string `yaml:"mana"`
	Attack  string `yaml:"attack"`
	Defense string `yaml:"defense"`
	Speed   string `yaml:"speed"`
	Luck    string `yaml:"luck"`
}

// fields pairs each override with its stat name.
func (s Stats) fields() [6][2]string {
	return [6][2]string{
		{"health", s.Health},
		{"mana", s.Mana},
		{"attack", s.Attack},
		{"defense", s.Defense},
		{"speed", s.Speed},
		{"luck", s.Luck},
	}
}

// Entry is one candidate combatant.
type Entry struct {
	Name  string `yaml:"name"`
	Stats Stats  `yaml:"stats"`
}

// Validate checks the name and that every override parses.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("roster entry: name must not be empty")
	}
	for _, f := range e.Stats.fields() {
		if f[1] == "" {
			continue
		}
		if _, err := dice.Parse(f[1]); err != nil {
			return fmt.Errorf("roster entry %q: %s: %w", e.Name, f[0], err)
		}
	}
	return nil
}

// Pool is one YAML file: a team and its candidates.
type Pool struct {
	Team    string   `yaml:"team"`
	Entries []*Entry `yaml:"entries"`
}

// ParseTeam maps "player" or "monster" to a battle.Team.
func ParseTeam(s string) (battle.Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player", "players":
		return battle.Player, nil
	case "monster", "monsters":
		return battle.Monster, nil
	default:
		return 0, fmt.Errorf("roster: unknown team %q", s)
	}
}

// Content is every candidate loaded for both teams, in file then entry order.
//
// Invariant: names are unique within a team.
type Content struct {
	Players  []*Entry
	Monsters []*Entry
}

// Pool returns the candidates for team.
func (c *Content) Pool(team battle.Team) []*Entry {
	if team == battle.Player {
		return c.Players
	}
	return c.Monsters
}

func (c *Content) add(team battle.Team, e *Entry) error {
	for _, existing := range c.Pool(team) {
		if existing.Name == e.Name {
			return fmt.Errorf("roster: duplicate %s %q", team, e.Name)
		}
	}
	if team == battle.Player {
		c.Players = append(c.Players, e)
	} else {
		c.Monsters = append(c.Monsters, e)
	}
	return nil
}

// LoadPoolFromBytes parses and validates a single pool file.
func LoadPoolFromBytes(data []byte) (*Pool, error) {
	var p Pool
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing pool YAML: %w", err)
	}
	if _, err := ParseTeam(p.Team); err != nil {
		return nil, err
	}
	for _, e := range p.Entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// LoadDirectory reads every *.yaml file in dir and merges the pools.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns the merged Content or an error naming the first bad file.
func LoadDirectory(dir string) (*Content, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading roster dir %q: %w", dir, err)
	}
	content := &Content{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		pool, err := LoadPoolFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		team, _ := ParseTeam(pool.Team)
		for _, e := range pool.Entries {
			if err := content.add(team, e); err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
		}
	}
	return content, nil
}
