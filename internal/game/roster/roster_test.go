package roster_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int { return min(f.val, n-1) }

func writeYAML(t testing.TB, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func content(players, monsters []string) *roster.Content {
	c := &roster.Content{}
	for _, n := range players {
		c.Players = append(c.Players, &roster.Entry{Name: n})
	}
	for _, n := range monsters {
		c.Monsters = append(c.Monsters, &roster.Entry{Name: n})
	}
	return c
}

func generator(c *roster.Content, src dice.Source, counts roster.Counts) *roster.Generator {
	return roster.NewGenerator(c, dice.NewLoggedRoller(src, zap.NewNop()), counts, zap.NewNop())
}

func TestLoadDirectory_ShippedContent(t *testing.T) {
	c, err := roster.LoadDirectory("../../../content/roster")
	require.NoError(t, err)
	assert.Len(t, c.Players, 22)
	assert.Len(t, c.Monsters, 28)
	assert.Equal(t, "Ragnar", c.Players[0].Name)
}

func TestLoadDirectory_MergesAndRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "a.yaml", "team: player\nentries:\n  - name: Ragnar\n")
	writeYAML(t, dir, "b.yaml", "team: monster\nentries:\n  - name: Slime\n    stats:\n      attack: 2d6\n")
	writeYAML(t, dir, "notes.txt", "ignored")
	c, err := roster.LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, c.Monsters, 1)
	assert.Equal(t, "2d6", c.Monsters[0].Stats.Attack)

	writeYAML(t, dir, "c.yaml", "team: player\nentries:\n  - name: Ragnar\n")
	_, err = roster.LoadDirectory(dir)
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadPoolFromBytes_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown team":  "team: dragons\nentries: []\n",
		"empty name":    "team: player\nentries:\n  - name: \"\"\n",
		"bad dice":      "team: player\nentries:\n  - name: X\n    stats:\n      attack: 2x6\n",
		"unknown field": "team: player\nentries:\n  - name: X\n    level: 3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := roster.LoadPoolFromBytes([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := roster.LoadDirectory(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGenerate_DefaultStatsAndLayout(t *testing.T) {
	c := content([]string{"Ragnar", "Alena"}, []string{"Slime"})
	field, err := generator(c, fixedSrc{}, roster.Counts{Players: 2, Monsters: 1}).Generate()
	require.NoError(t, err)
	require.Equal(t, 3, field.Len())
	assert.Equal(t, uint32(1), field.Round)

	p0, _ := field.Get(0)
	p1, _ := field.Get(1)
	m, _ := field.Get(2)
	assert.Equal(t, battle.Player, p0.Team)
	assert.Equal(t, battle.Player, p1.Team)
	assert.Equal(t, battle.Monster, m.Team)
	assert.Equal(t, "Name: Ragnar, HP: 10/10, MP: 10/10", p0.String())
	assert.Equal(t, uint32(10), m.Attack)
}

func TestGenerate_StatOverrides(t *testing.T) {
	c := &roster.Content{
		Players: []*roster.Entry{{Name: "Ragnar", Stats: roster.Stats{Health: "14", Attack: "2d6+4", Speed: "-3"}}},
		Monsters: []*roster.Entry{{Name: "Slime", Stats: roster.Stats{Health: "0"}}},
	}
	// every die shows 3 (Intn returns 2)
	field, err := generator(c, fixedSrc{val: 2}, roster.Counts{Players: 1, Monsters: 1}).Generate()
	require.NoError(t, err)
	p, _ := field.Get(0)
	assert.Equal(t, "14/14", p.Health.String())
	assert.Equal(t, uint32(10), p.Attack)
	assert.Equal(t, uint32(0), p.Speed, "negative rolls clamp to zero")
	m, _ := field.Get(1)
	assert.True(t, m.IsAlive(), "health is at least 1")
}

func TestGenerate_HugeRollsClampToMax(t *testing.T) {
	c := &roster.Content{
		Players:  []*roster.Entry{{Name: "Titan", Stats: roster.Stats{Health: "5000000000", Attack: "5000000000", Defense: "d6+5000000000"}}},
		Monsters: []*roster.Entry{{Name: "Slime"}},
	}
	field, err := generator(c, fixedSrc{}, roster.Counts{Players: 1, Monsters: 1}).Generate()
	require.NoError(t, err)
	p, _ := field.Get(0)
	assert.Equal(t, uint32(math.MaxUint32), p.Attack, "does not wrap to 705032704")
	assert.Equal(t, uint32(math.MaxUint32), p.Defense)
	assert.Equal(t, uint32(math.MaxUint32), p.Health.Max())
}

func TestGenerate_OversizedDiceRejected(t *testing.T) {
	c := &roster.Content{
		Players:  []*roster.Entry{{Name: "Ragnar", Stats: roster.Stats{Attack: "999999999d6"}}},
		Monsters: []*roster.Entry{{Name: "Slime"}},
	}
	_, err := generator(c, fixedSrc{}, roster.Counts{Players: 1, Monsters: 1}).Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ragnar")
}

func TestGenerate_PoolTooSmall(t *testing.T) {
	c := content([]string{"Ragnar"}, []string{"Slime"})
	_, err := generator(c, fixedSrc{}, roster.Counts{Players: 2, Monsters: 1}).Generate()
	assert.True(t, errors.Is(err, roster.ErrPoolTooSmall))
}

func TestNewGenerator_PanicsOnNil(t *testing.T) {
	roller := dice.NewLoggedRoller(fixedSrc{}, zap.NewNop())
	assert.Panics(t, func() { roster.NewGenerator(nil, roller, roster.DefaultCounts, zap.NewNop()) })
	assert.Panics(t, func() { roster.NewGenerator(&roster.Content{}, nil, roster.DefaultCounts, zap.NewNop()) })
	assert.Panics(t, func() { roster.NewGenerator(&roster.Content{}, roller, roster.DefaultCounts, nil) })
}

func TestProperty_Generate_SamplesWithoutReplacement(t *testing.T) {
	players := []string{"Ragnar", "Alena", "Cristo", "Brey", "Taloon", "Mara"}
	monsters := []string{"Slime", "Bat", "Drakee", "Hork"}
	rapid.Check(t, func(rt *rapid.T) {
		np := rapid.IntRange(0, len(players)).Draw(rt, "players")
		nm := rapid.IntRange(0, len(monsters)).Draw(rt, "monsters")
		seed := rapid.Uint64().Draw(rt, "seed")
		g := generator(content(players, monsters), dice.NewSeededSource(seed), roster.Counts{Players: np, Monsters: nm})
		field, err := g.Generate()
		require.NoError(rt, err)
		assert.Equal(rt, np+nm, field.Len())

		seen := map[string]bool{}
		for _, c := range field.All() {
			assert.False(rt, seen[c.Name], "duplicate %s", c.Name)
			seen[c.Name] = true
		}
		assert.Len(rt, field.Living(battle.Player), np)
		assert.Len(rt, field.Living(battle.Monster), nm)
	})
}

func TestParseTeam(t *testing.T) {
	team, err := roster.ParseTeam("Monster")
	require.NoError(t, err)
	assert.Equal(t, battle.Monster, team)
	_, err = roster.ParseTeam("")
	assert.Error(t, err)
}
