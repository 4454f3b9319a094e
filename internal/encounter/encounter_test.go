package encounter_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/encounter"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/buff"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// zeroSrc always rolls 0, so every attack by a 10-attack combatant deals 5.
type zeroSrc struct{}

func (zeroSrc) Intn(int) int { return 0 }

type deciderFunc func(ctx context.Context, field *battle.Battlefield, self battle.Slot) (battle.Action, error)

func (f deciderFunc) Decide(ctx context.Context, field *battle.Battlefield, self battle.Slot) (battle.Action, error) {
	return f(ctx, field, self)
}

// attackFirstFoe attacks the lowest living opponent slot.
var attackFirstFoe = deciderFunc(func(_ context.Context, field *battle.Battlefield, self battle.Slot) (battle.Action, error) {
	me, _ := field.Get(self)
	return battle.Attack(self, field.Living(me.Team.Opponent())[0]), nil
})

var alwaysDefend = deciderFunc(func(_ context.Context, _ *battle.Battlefield, self battle.Slot) (battle.Action, error) {
	return battle.Defend(self), nil
})

type recorder struct {
	rounds   []uint32
	events   []battle.Event
	outcomes []battle.Status
}

func (r *recorder) Round(field *battle.Battlefield) { r.rounds = append(r.rounds, field.Round) }
func (r *recorder) Events(evs []battle.Event)       { r.events = append(r.events, evs...) }
func (r *recorder) Outcome(s battle.Status)         { r.outcomes = append(r.outcomes, s) }

func (r *recorder) narratives() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Narrative)
	}
	return out
}

func duel(playerSpeed, monsterSpeed uint32) *battle.Battlefield {
	p := battle.NewCombatant("Ragnar", battle.Player)
	p.Speed = playerSpeed
	m := battle.NewCombatant("Goblin", battle.Monster)
	m.Speed = monsterSpeed
	return battle.NewBattlefield(p, m)
}

func newEncounter(field *battle.Battlefield, deciders map[battle.Team]encounter.Decider, p encounter.Presenter, maxRounds uint32) *encounter.Encounter {
	resolver := battle.NewResolver(zeroSrc{}, buff.DefaultRegistry(), zap.NewNop())
	return encounter.New(field, resolver, deciders, p, maxRounds, zap.NewNop())
}

func both(d encounter.Decider) map[battle.Team]encounter.Decider {
	return map[battle.Team]encounter.Decider{battle.Player: d, battle.Monster: d}
}

func TestRun_PlayerVictory(t *testing.T) {
	rec := &recorder{}
	field := duel(10, 5)
	enc := newEncounter(field, both(attackFirstFoe), rec, 0)
	require.Equal(t, encounter.StateCollecting, enc.State())

	status, err := enc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, battle.PlayerVictory, status)
	assert.Equal(t, encounter.StateFinished, enc.State())
	assert.Equal(t, []uint32{1, 2}, rec.rounds)
	assert.Equal(t, []battle.Status{battle.PlayerVictory}, rec.outcomes)
	assert.Equal(t, []string{
		"Ragnar attacked Goblin!  Hit!  Did 5 damage!",
		"Goblin attacked Ragnar!  Hit!  Did 5 damage!",
		"Ragnar attacked Goblin!  Hit!  Did 5 damage!",
		"Goblin perished!",
	}, rec.narratives())
	assert.Equal(t, uint32(2), field.Round, "decided round does not advance")
}

func TestRun_BuffsTickBeforeRoundIsShown(t *testing.T) {
	field := duel(10, 5)
	p, _ := field.Get(0)
	p.AddBuff(buff.Defend, 0)

	var shown, decided []bool
	pres := &tickRecorder{seen: &shown}
	d := deciderFunc(func(_ context.Context, field *battle.Battlefield, self battle.Slot) (battle.Action, error) {
		c, _ := field.Get(0)
		decided = append(decided, c.Buffs.Has(buff.Defend))
		return battle.Defend(self), nil
	})
	_, err := newEncounter(field, both(d), pres, 1).Run(context.Background())
	require.ErrorIs(t, err, encounter.ErrRoundLimit)
	require.NotEmpty(t, shown)
	assert.False(t, shown[0], "expired buff is gone before the first display")
	assert.Equal(t, []bool{false, false}, decided)
}

// tickRecorder notes whether slot 0 holds a defend buff each time a round is shown.
type tickRecorder struct {
	recorder
	seen *[]bool
}

func (r *tickRecorder) Round(field *battle.Battlefield) {
	c, _ := field.Get(0)
	*r.seen = append(*r.seen, c.Buffs.Has(buff.Defend))
}

func TestRun_MonsterVictory(t *testing.T) {
	rec := &recorder{}
	status, err := newEncounter(duel(5, 10), both(attackFirstFoe), rec, 0).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, battle.MonsterVictory, status)
	assert.Equal(t, []battle.Status{battle.MonsterVictory}, rec.outcomes)
}

func TestRun_RoundLimit(t *testing.T) {
	rec := &recorder{}
	enc := newEncounter(duel(10, 5), both(alwaysDefend), rec, 3)
	status, err := enc.Run(context.Background())
	require.ErrorIs(t, err, encounter.ErrRoundLimit)
	assert.Equal(t, battle.Continuing, status)
	assert.Equal(t, encounter.StateAborted, enc.State())
	assert.Equal(t, []uint32{1, 2, 3}, rec.rounds)
	assert.Empty(t, rec.outcomes)
}

func TestRun_CancelledContext(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enc := newEncounter(duel(10, 5), both(attackFirstFoe), rec, 0)
	_, err := enc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, encounter.StateAborted, enc.State())
	assert.Empty(t, rec.rounds)
}

func TestRun_CancelDuringCollection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := deciderFunc(func(ctx context.Context, _ *battle.Battlefield, self battle.Slot) (battle.Action, error) {
		cancel()
		return battle.Action{}, ctx.Err()
	})
	enc := newEncounter(duel(10, 5), both(d), &recorder{}, 0)
	_, err := enc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, encounter.StateAborted, enc.State())
}

func TestRun_DeciderError(t *testing.T) {
	boom := errors.New("keyboard on fire")
	d := deciderFunc(func(context.Context, *battle.Battlefield, battle.Slot) (battle.Action, error) {
		return battle.Action{}, boom
	})
	enc := newEncounter(duel(10, 5), both(d), &recorder{}, 0)
	_, err := enc.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Ragnar")
	assert.Equal(t, encounter.StateAborted, enc.State())
}

func TestRun_MissingDecider(t *testing.T) {
	deciders := map[battle.Team]encounter.Decider{battle.Player: attackFirstFoe}
	enc := newEncounter(duel(10, 5), deciders, &recorder{}, 0)
	_, err := enc.Run(context.Background())
	require.ErrorIs(t, err, encounter.ErrNoDecider)
}

func TestRun_InvalidActionAborts(t *testing.T) {
	rec := &recorder{}
	d := deciderFunc(func(_ context.Context, _ *battle.Battlefield, self battle.Slot) (battle.Action, error) {
		return battle.Attack(self, 99), nil
	})
	field := duel(10, 5)
	enc := newEncounter(field, both(d), rec, 0)
	_, err := enc.Run(context.Background())
	require.ErrorIs(t, err, battle.ErrNoSuchCombatant)
	assert.Equal(t, encounter.StateAborted, enc.State())
	assert.Empty(t, rec.events)
	for _, c := range field.All() {
		assert.Equal(t, uint32(10), c.Health.Value())
	}
}

func TestRun_AsksLivingCombatantsInSlotOrder(t *testing.T) {
	a := battle.NewCombatant("A", battle.Player)
	dead := battle.NewCombatant("Dead", battle.Player)
	dead.TakeDamage(10)
	b := battle.NewCombatant("B", battle.Player)
	m := battle.NewCombatant("M", battle.Monster)
	field := battle.NewBattlefield(a, dead, b, m)

	var asked []battle.Slot
	d := deciderFunc(func(_ context.Context, _ *battle.Battlefield, self battle.Slot) (battle.Action, error) {
		asked = append(asked, self)
		return battle.Defend(self), nil
	})
	_, err := newEncounter(field, both(d), &recorder{}, 1).Run(context.Background())
	require.ErrorIs(t, err, encounter.ErrRoundLimit)
	assert.Equal(t, []battle.Slot{0, 2, 3}, asked)
}

func TestRun_LogsWithEncounterID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	resolver := battle.NewResolver(zeroSrc{}, nil, zap.NewNop())
	enc := encounter.New(duel(10, 5), resolver, both(attackFirstFoe), &recorder{}, 0, zap.New(core))
	_, err := enc.Run(context.Background())
	require.NoError(t, err)

	started := logs.FilterMessage("encounter started").All()
	require.Len(t, started, 1)
	assert.Equal(t, enc.ID.String(), started[0].ContextMap()["encounter"])
	assert.Equal(t, 1, logs.FilterMessage("encounter finished").Len())
}

func TestRun_AbortLogsError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	resolver := battle.NewResolver(zeroSrc{}, nil, zap.NewNop())
	enc := encounter.New(duel(10, 5), resolver, both(alwaysDefend), &recorder{}, 1, zap.New(core))
	_, err := enc.Run(context.Background())
	require.Error(t, err)
	aborted := logs.FilterMessage("encounter aborted").All()
	require.Len(t, aborted, 1)
	assert.Equal(t, zapcore.ErrorLevel, aborted[0].Level)
}

func TestRun_QuitLogsInfo(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := deciderFunc(func(context.Context, *battle.Battlefield, battle.Slot) (battle.Action, error) {
		return battle.Action{}, fmt.Errorf("end of input: %w", encounter.ErrQuit)
	})
	resolver := battle.NewResolver(zeroSrc{}, nil, zap.NewNop())
	enc := encounter.New(duel(10, 5), resolver, both(d), &recorder{}, 0, zap.New(core))
	_, err := enc.Run(context.Background())
	require.ErrorIs(t, err, encounter.ErrQuit)
	assert.Equal(t, encounter.StateAborted, enc.State())

	aborted := logs.FilterMessage("encounter aborted").All()
	require.Len(t, aborted, 1)
	assert.Equal(t, zapcore.InfoLevel, aborted[0].Level)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRun_CancelLogsInfo(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resolver := battle.NewResolver(zeroSrc{}, nil, zap.NewNop())
	enc := encounter.New(duel(10, 5), resolver, both(attackFirstFoe), &recorder{}, 0, zap.New(core))
	_, err := enc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestNew_DistinctIDs(t *testing.T) {
	a := newEncounter(duel(10, 5), both(attackFirstFoe), &recorder{}, 0)
	b := newEncounter(duel(10, 5), both(attackFirstFoe), &recorder{}, 0)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNew_PanicsOnNil(t *testing.T) {
	field := duel(10, 5)
	resolver := battle.NewResolver(zeroSrc{}, nil, zap.NewNop())
	rec := &recorder{}
	assert.Panics(t, func() { encounter.New(nil, resolver, nil, rec, 0, zap.NewNop()) })
	assert.Panics(t, func() { encounter.New(field, nil, nil, rec, 0, zap.NewNop()) })
	assert.Panics(t, func() { encounter.New(field, resolver, nil, nil, 0, zap.NewNop()) })
	assert.Panics(t, func() { encounter.New(field, resolver, nil, rec, 0, nil) })
}

func TestProperty_RandomEncountersEndDecided(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		players := rapid.IntRange(1, 4).Draw(rt, "players")
		monsters := rapid.IntRange(1, 4).Draw(rt, "monsters")

		src := dice.NewSeededSource(seed)
		field := battle.NewBattlefield()
		for range players {
			field.Add(battle.NewCombatant("P", battle.Player))
		}
		for range monsters {
			field.Add(battle.NewCombatant("M", battle.Monster))
		}
		rec := &recorder{}
		resolver := battle.NewResolver(src, nil, zap.NewNop())
		enc := encounter.New(field, resolver, both(ai.RandomDecider{Src: src}), rec, 500, zap.NewNop())

		status, err := enc.Run(context.Background())
		if err != nil {
			rt.Fatalf("seed %d: %v", seed, err)
		}
		if !status.Decided() {
			rt.Fatalf("seed %d: undecided status %v", seed, status)
		}
		if field.TeamHasLost(battle.Player) == field.TeamHasLost(battle.Monster) {
			rt.Fatalf("seed %d: exactly one team must have lost", seed)
		}
		if len(rec.outcomes) != 1 || rec.outcomes[0] != status {
			rt.Fatalf("seed %d: outcomes %v", seed, rec.outcomes)
		}
	})
}
