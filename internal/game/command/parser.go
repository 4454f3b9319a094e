package command

import "strings"

// Input holds the parsed command word and arguments from a text line.
type Input struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns an Input. If line is blank, Command is empty.
func Parse(line string) Input {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Input{}
	}
	in := Input{Command: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		in.Args = fields[1:]
	}
	return in
}
