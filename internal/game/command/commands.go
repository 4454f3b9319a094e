// Package command defines the commands a human player may type at the
// encounter prompt, and parses input lines into them.
package command

// Categories for organizing commands in help output.
const (
	CategoryCombat = "combat"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to prompt behavior.
const (
	HandlerAttack = "attack"
	HandlerDefend = "defend"
	HandlerStatus = "status"
	HandlerHelp   = "help"
	HandlerQuit   = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "attack <n>".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler selects the prompt behavior.
	Handler string
	// Ends reports whether choosing this command completes the player's turn.
	Ends bool
}

// BuiltinCommands returns every command available at the prompt, in help order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "attack", Aliases: []string{"a", "att", "kill"}, Usage: "attack <n>", Help: "Attack monster number n", Category: CategoryCombat, Handler: HandlerAttack, Ends: true},
		{Name: "defend", Aliases: []string{"d", "def", "guard"}, Usage: "defend", Help: "Raise your guard, adding defense for a few rounds", Category: CategoryCombat, Handler: HandlerDefend, Ends: true},
		{Name: "status", Aliases: []string{"s", "look", "l"}, Usage: "status", Help: "Show the battlefield again", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "help", Aliases: []string{"h", "?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"q", "exit"}, Usage: "quit", Help: "Abandon the encounter", Category: CategorySystem, Handler: HandlerQuit, Ends: true},
	}
}
