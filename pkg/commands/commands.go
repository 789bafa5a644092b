// Package commands routes the slash commands typed at the chat prompt to the
// skill catalog and session and formats their results for display.
package commands

import (
	"strings"
	"unicode"
)

// Command is a top-level slash command.
type Command string

// Commands.
const (
	CommandHelp  Command = "/help"
	CommandSkill Command = "/skill"
)

// Subcommand is a /skill subcommand.
type Subcommand string

// Subcommands of /skill.
const (
	SubcommandList  Subcommand = "list"
	SubcommandUse   Subcommand = "use"
	SubcommandClear Subcommand = "clear"
	SubcommandShow  Subcommand = "show"
	SubcommandRef   Subcommand = "ref"
	SubcommandFiles Subcommand = "files"
	SubcommandMatch Subcommand = "match"
)

// Invocation is a parsed command line.
type Invocation struct {
	Command    Command
	Subcommand Subcommand
	// Argument is the rest of the line after the subcommand, inner
	// whitespace preserved.
	Argument string
}

// IsCommand reports whether line is a slash command rather than chat input.
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}

// Parse splits the trimmed line into at most three whitespace-separated
// tokens. Command and subcommand are lowercased; the argument is kept as typed.
func Parse(line string) Invocation {
	parts := splitFields(strings.TrimSpace(line), 3)

	var inv Invocation
	if len(parts) > 0 {
		inv.Command = Command(strings.ToLower(parts[0]))
	}
	if len(parts) > 1 {
		inv.Subcommand = Subcommand(strings.ToLower(parts[1]))
	}
	if len(parts) > 2 {
		inv.Argument = parts[2]
	}
	return inv
}

// splitFields splits s around runs of whitespace into at most n fields. The
// last field holds the unsplit remainder.
func splitFields(s string, n int) []string {
	var fields []string
	for s != "" && len(fields) < n-1 {
		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			break
		}
		fields = append(fields, s[:end])
		s = strings.TrimLeftFunc(s[end:], unicode.IsSpace)
	}
	if s != "" {
		fields = append(fields, s)
	}
	return fields
}

// HelpText returns the command summary shown by /help.
func HelpText() string {
	return `Available commands:
  /skill list                 List skills
  /skill use <name>           Activate a skill (loads the SKILL.md body)
  /skill clear                Clear the active skill
  /skill show                 Show the active skill and its loaded resources
  /skill ref <relative-path>  Read a skill resource file into the prompt
  /skill files [pattern]      List resource files of the active skill
  /skill match <text>         Suggest the skill best matching text
  /help                       Show this help
Type exit to quit.`
}
