package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/encounter"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/command"
)

// ErrQuit is returned by Prompt.Decide when the player quits or input ends.
var ErrQuit = encounter.ErrQuit

// Prompt asks a human at the terminal for each player's action.
// It implements the encounter decider contract.
type Prompt struct {
	in       io.Reader
	out      *Renderer
	commands *command.Registry
	logger   *zap.Logger

	start sync.Once
	lines chan inputLine
}

// inputLine is one line read from the terminal, or the error that ended input
// (nil error with done set means EOF).
type inputLine struct {
	text string
	err  error
	done bool
}

// NewPrompt creates a Prompt reading lines from in and writing through out.
//
// Precondition: in, out, commands and logger must be non-nil.
func NewPrompt(in io.Reader, out *Renderer, commands *command.Registry, logger *zap.Logger) *Prompt {
	if in == nil {
		panic("console.NewPrompt: input must not be nil")
	}
	if out == nil {
		panic("console.NewPrompt: renderer must not be nil")
	}
	if commands == nil {
		panic("console.NewPrompt: commands must not be nil")
	}
	if logger == nil {
		panic("console.NewPrompt: logger must not be nil")
	}
	return &Prompt{in: in, out: out, commands: commands, logger: logger, lines: make(chan inputLine)}
}

// read feeds p.lines until input ends. It runs for the life of the input
// and is started on the first Decide.
func (p *Prompt) read() {
	defer close(p.lines)
	sc := bufio.NewScanner(p.in)
	for sc.Scan() {
		p.lines <- inputLine{text: sc.Text()}
	}
	p.lines <- inputLine{err: sc.Err(), done: true}
}

// next waits for a line or for ctx to end, whichever comes first.
func (p *Prompt) next(ctx context.Context) (string, error) {
	p.start.Do(func() { go p.read() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case in, ok := <-p.lines:
		switch {
		case !ok || (in.done && in.err == nil):
			return "", fmt.Errorf("end of input: %w", ErrQuit)
		case in.done:
			return "", fmt.Errorf("reading input: %w", in.err)
		}
		return in.text, nil
	}
}

// Decide prompts until the player enters a command that ends the turn.
// Bad input is reported and the prompt repeats. Cancelling ctx returns
// promptly even while waiting for a line.
//
// Postcondition: an attack always names a living opponent of self.
func (p *Prompt) Decide(ctx context.Context, field *battle.Battlefield, self battle.Slot) (battle.Action, error) {
	me, ok := field.Get(self)
	if !ok {
		return battle.Action{}, fmt.Errorf("slot %d: %w", self, battle.ErrNoSuchCombatant)
	}
	for {
		if err := ctx.Err(); err != nil {
			return battle.Action{}, err
		}
		p.out.Printf("%s> ", me.Name)
		line, err := p.next(ctx)
		if err != nil {
			return battle.Action{}, err
		}
		cmd, args, ok := p.commands.Lookup(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				p.out.Printf("Unknown command %q. Type help for a list.\n", strings.Fields(line)[0])
			}
			continue
		}

		switch cmd.Handler {
		case command.HandlerAttack:
			target, problem := pickTarget(field, me.Team.Opponent(), args)
			if problem != "" {
				p.out.Printf("%s\n", problem)
				continue
			}
			a := battle.Attack(self, target)
			p.logger.Debug("player chose", zap.Stringer("action", a))
			return a, nil
		case command.HandlerDefend:
			a := battle.Defend(self)
			p.logger.Debug("player chose", zap.Stringer("action", a))
			return a, nil
		case command.HandlerStatus:
			p.out.Round(field)
		case command.HandlerHelp:
			p.out.Printf("%s", p.commands.Help())
		case command.HandlerQuit:
			return battle.Action{}, ErrQuit
		default:
			p.out.Printf("%s cannot be used here.\n", cmd.Name)
		}
	}
}

// pickTarget maps a 1-based number within team to a living slot. With no
// argument and a single living member, that member is chosen.
func pickTarget(field *battle.Battlefield, team battle.Team, args []string) (battle.Slot, string) {
	if len(args) == 0 {
		if living := field.Living(team); len(living) == 1 {
			return living[0], ""
		}
		return 0, "Usage: attack <n>"
	}
	if len(args) > 1 {
		return 0, "Usage: attack <n>"
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Sprintf("%q is not a target number.", args[0])
	}
	i := 0
	for slot, c := range field.Members(team) {
		i++
		if i != n {
			continue
		}
		if !c.IsAlive() {
			return 0, fmt.Sprintf("%s is already dead.", c.Name)
		}
		return slot, ""
	}
	return 0, fmt.Sprintf("There is no target number %d.", n)
}
