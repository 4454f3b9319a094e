package roster

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/stat"
)

// Counts is how many combatants each team fields.
type Counts struct {
	Players  int
	Monsters int
}

// DefaultCounts fields four players against three monsters.
var DefaultCounts = Counts{Players: 4, Monsters: 3}

// Generator samples battlefields from loaded Content.
type Generator struct {
	content *Content
	roller  *dice.Roller
	counts  Counts
	logger  *zap.Logger
}

// NewGenerator creates a Generator.
//
// Precondition: content, roller and logger must be non-nil; counts are >= 1.
func NewGenerator(content *Content, roller *dice.Roller, counts Counts, logger *zap.Logger) *Generator {
	if content == nil {
		panic("roster.NewGenerator: content must not be nil")
	}
	if roller == nil {
		panic("roster.NewGenerator: roller must not be nil")
	}
	if logger == nil {
		panic("roster.NewGenerator: logger must not be nil")
	}
	return &Generator{content: content, roller: roller, counts: counts, logger: logger}
}

// Generate returns a new Battlefield with the sampled players in the lowest
// slots followed by the sampled monsters. Entries are drawn without
// replacement, so no name appears twice on a team.
//
// Postcondition: the field holds exactly counts.Players players and
// counts.Monsters monsters, all alive, with Round == 1.
func (g *Generator) Generate() (*battle.Battlefield, error) {
	field := battle.NewBattlefield()
	for _, side := range []struct {
		team battle.Team
		n    int
	}{
		{battle.Player, g.counts.Players},
		{battle.Monster, g.counts.Monsters},
	} {
		picked, err := sample(g.roller.Source(), g.content.Pool(side.team), side.n)
		if err != nil {
			return nil, fmt.Errorf("sampling %s team: %w", side.team, err)
		}
		for _, e := range picked {
			c, err := g.build(e, side.team)
			if err != nil {
				return nil, err
			}
			field.Add(c)
		}
	}
	g.logger.Debug("roster generated",
		zap.Int("players", g.counts.Players),
		zap.Int("monsters", g.counts.Monsters),
	)
	return field, nil
}

func (g *Generator) build(e *Entry, team battle.Team) (*battle.Combatant, error) {
	c := battle.NewCombatant(e.Name, team)
	var err error
	roll := func(expr string, fallback uint32) uint32 {
		if expr == "" || err != nil {
			return fallback
		}
		var res dice.RollResult
		res, err = g.roller.RollExpr(expr)
		return uint32(min(max(int64(res.Total()), 0), math.MaxUint32))
	}
	hp := max(roll(e.Stats.Health, battle.DefaultStat), 1)
	mp := roll(e.Stats.Mana, battle.DefaultStat)
	c.Health = stat.New(hp)
	c.Mana = stat.New(mp)
	c.Attack = roll(e.Stats.Attack, c.Attack)
	c.Defense = roll(e.Stats.Defense, c.Defense)
	c.Speed = roll(e.Stats.Speed, c.Speed)
	c.Luck = roll(e.Stats.Luck, c.Luck)
	if err != nil {
		return nil, fmt.Errorf("rolling stats for %q: %w", e.Name, err)
	}
	return c, nil
}

// sample draws n entries from pool without replacement by a partial
// Fisher-Yates shuffle over a copy. The result keeps draw order.
func sample(src dice.Source, pool []*Entry, n int) ([]*Entry, error) {
	if n < 0 || n > len(pool) {
		return nil, fmt.Errorf("want %d of %d: %w", n, len(pool), ErrPoolTooSmall)
	}
	buf := make([]*Entry, len(pool))
	copy(buf, pool)
	for i := 0; i < n; i++ {
		j := i + src.Intn(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:n], nil
}
