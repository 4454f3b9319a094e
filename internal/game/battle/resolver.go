package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/buff"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/stat"
)

// EventKind classifies a narration event.
type EventKind int

const (
	EventHit EventKind = iota
	EventMiss
	EventDeath
	EventDefend
	EventRetarget
	EventSkip
)

// String returns a short label for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	case EventDeath:
		return "death"
	case EventDefend:
		return "defend"
	case EventRetarget:
		return "retarget"
	case EventSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Event records one narrated step of a round, in resolution order.
type Event struct {
	Kind       EventKind
	Round      uint32
	Actor      Slot
	ActorName  string
	Target     Slot
	TargetName string
	// Damage is the health removed; non-zero only for EventHit.
	Damage    uint32
	Narrative string
}

// Resolver executes actions against a Battlefield.
type Resolver struct {
	src    dice.Source
	buffs  *buff.Registry
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil reg falls back to buff.DefaultRegistry.
//
// Precondition: src and logger must be non-nil.
func NewResolver(src dice.Source, reg *buff.Registry, logger *zap.Logger) *Resolver {
	if src == nil {
		panic("battle.NewResolver: src must not be nil")
	}
	if logger == nil {
		panic("battle.NewResolver: logger must not be nil")
	}
	if reg == nil {
		reg = buff.DefaultRegistry()
	}
	return &Resolver{src: src, buffs: reg, logger: logger}
}

// EffectiveAttack returns c's attack plus active buff bonuses, saturating at
// math.MaxUint32.
func (r *Resolver) EffectiveAttack(c *Combatant) uint32 {
	if c.Buffs == nil {
		return c.Attack
	}
	return stat.SaturatingAdd(c.Attack, buff.AttackBonus(c.Buffs, r.buffs))
}

// EffectiveDefense returns c's defense plus active buff bonuses, saturating at
// math.MaxUint32.
func (r *Resolver) EffectiveDefense(c *Combatant) uint32 {
	if c.Buffs == nil {
		return c.Defense
	}
	return stat.SaturatingAdd(c.Defense, buff.DefenseBonus(c.Buffs, r.buffs))
}

// ResolveAttack performs from's attack on to, retargeting first if to is dead.
//
// Damage: raw = uniform(atk) + atk/2 (saturating), soak = uniform(def); a hit deals raw-soak
// when soak < raw. The target stays on the field when it dies.
//
// Precondition: from is alive; from's opponents include a living combatant.
// Postcondition: returns the narration for the attack in order.
func (r *Resolver) ResolveAttack(field *Battlefield, from, to Slot) ([]Event, error) {
	attacker, err := field.lookup(from)
	if err != nil {
		return nil, err
	}
	var events []Event

	target, err := ResolveTarget(field, r.src, from, to)
	if err != nil {
		return nil, err
	}
	defender, err := field.lookup(target)
	if err != nil {
		return nil, err
	}
	if target != to {
		original, _ := field.Get(to)
		events = append(events, Event{
			Kind:       EventRetarget,
			Round:      field.Round,
			Actor:      from,
			ActorName:  attacker.Name,
			Target:     target,
			TargetName: defender.Name,
			Narrative:  fmt.Sprintf("%s is already down; %s turns on %s.", original.Name, attacker.Name, defender.Name),
		})
	}

	atk := r.EffectiveAttack(attacker)
	raw := stat.SaturatingAdd(dice.Uniform(r.src, atk), atk/2)
	soak := dice.Uniform(r.src, r.EffectiveDefense(defender))

	if soak >= raw {
		events = append(events, Event{
			Kind:       EventMiss,
			Round:      field.Round,
			Actor:      from,
			ActorName:  attacker.Name,
			Target:     target,
			TargetName: defender.Name,
			Narrative:  fmt.Sprintf("%s attacked %s!  Did no damage!", attacker.Name, defender.Name),
		})
		r.logger.Debug("attack soaked",
			zap.Uint32("round", field.Round),
			zap.String("attacker", attacker.Name),
			zap.String("defender", defender.Name),
			zap.Uint32("raw", raw),
			zap.Uint32("soak", soak),
		)
		return events, nil
	}

	dealt := raw - soak
	defender.TakeDamage(dealt)
	events = append(events, Event{
		Kind:       EventHit,
		Round:      field.Round,
		Actor:      from,
		ActorName:  attacker.Name,
		Target:     target,
		TargetName: defender.Name,
		Damage:     dealt,
		Narrative:  fmt.Sprintf("%s attacked %s!  Hit!  Did %d damage!", attacker.Name, defender.Name, dealt),
	})
	r.logger.Debug("attack hit",
		zap.Uint32("round", field.Round),
		zap.String("attacker", attacker.Name),
		zap.String("defender", defender.Name),
		zap.Uint32("raw", raw),
		zap.Uint32("soak", soak),
		zap.Uint32("dealt", dealt),
		zap.Stringer("health", defender.Health),
	)

	if !defender.IsAlive() {
		events = append(events, Event{
			Kind:       EventDeath,
			Round:      field.Round,
			Actor:      target,
			ActorName:  defender.Name,
			Target:     target,
			TargetName: defender.Name,
			Narrative:  fmt.Sprintf("%s perished!", defender.Name),
		})
	}
	return events, nil
}

// ResolveDefend gives who the defend buff, refreshing it to the longer
// duration if already active.
func (r *Resolver) ResolveDefend(field *Battlefield, who Slot) ([]Event, error) {
	c, err := field.lookup(who)
	if err != nil {
		return nil, err
	}
	def, ok := r.buffs.Get(buff.Defend)
	if !ok {
		def = buff.DefendDef()
	}
	c.AddBuff(def.Kind, def.Duration)
	r.logger.Debug("defend",
		zap.Uint32("round", field.Round),
		zap.String("actor", c.Name),
		zap.Uint32("duration", def.Duration),
	)
	return []Event{{
		Kind:       EventDefend,
		Round:      field.Round,
		Actor:      who,
		ActorName:  c.Name,
		Target:     who,
		TargetName: c.Name,
		Narrative:  fmt.Sprintf("%s defended themselves!", c.Name),
	}}, nil
}
