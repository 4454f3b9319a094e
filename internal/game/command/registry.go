package command

import (
	"fmt"
	"strings"
)

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	ordered  []*Command
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd
		r.ordered = append(r.ordered, cmd)

		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
//
// Postcondition: Returns a Registry with all built-in commands registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(input string) (*Command, bool) {
	if cmd, ok := r.commands[input]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Lookup parses line and resolves its command word.
//
// Postcondition: Returns the command and its arguments, or ok=false when the
// line is blank or names no command.
func (r *Registry) Lookup(line string) (cmd *Command, args []string, ok bool) {
	in := Parse(line)
	if in.Command == "" {
		return nil, nil, false
	}
	cmd, ok = r.Resolve(in.Command)
	if !ok {
		return nil, nil, false
	}
	return cmd, in.Args, true
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.ordered...)
}

// Help renders one line per command: usage, aliases and help text.
func (r *Registry) Help() string {
	var b strings.Builder
	for _, cmd := range r.ordered {
		aliases := ""
		if len(cmd.Aliases) > 0 {
			aliases = "(" + strings.Join(cmd.Aliases, ", ") + ")"
		}
		fmt.Fprintf(&b, "  %-12s %-16s %s\n", cmd.Usage, aliases, cmd.Help)
	}
	return b.String()
}
