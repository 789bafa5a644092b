package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillchat/pkg/logger"
	"github.com/jingkaihe/skillchat/pkg/skills"
)

const (
	usageSkill = "Usage: /skill list | use <name> | clear | show | ref <relative-path> | files [pattern] | match <text>"
	usageUse   = "Usage: /skill use <name>"
	usageRef   = "Usage: /skill ref <relative-path>"
	usageMatch = "Usage: /skill match <text>"

	msgUnknownCommand = "Unknown command. Type /help for help."
	msgNoActiveSkill  = "No active skill. Use /skill use <name> first."
)

// Dispatcher executes slash commands against a skill catalog and session.
// It only reports outcomes as text; nothing it handles is fatal.
type Dispatcher struct {
	repo    *skills.Repository
	session *skills.Session
}

// NewDispatcher creates a Dispatcher operating on repo and session.
func NewDispatcher(repo *skills.Repository, session *skills.Session) *Dispatcher {
	return &Dispatcher{repo: repo, session: session}
}

// Handle runs the command on line and returns the message to display.
func (d *Dispatcher) Handle(ctx context.Context, line string) string {
	inv := Parse(line)
	logger.G(ctx).WithField("command", inv.Command).
		WithField("subcommand", inv.Subcommand).
		Debug("handling command")

	switch inv.Command {
	case CommandHelp:
		return HelpText()
	case CommandSkill:
		return d.handleSkill(ctx, inv)
	default:
		return msgUnknownCommand
	}
}

func (d *Dispatcher) handleSkill(ctx context.Context, inv Invocation) string {
	switch inv.Subcommand {
	case "":
		return usageSkill
	case SubcommandList:
		return d.list()
	case SubcommandUse:
		return d.use(ctx, inv.Argument)
	case SubcommandClear:
		d.session.Clear()
		return "Cleared the active skill."
	case SubcommandShow:
		return d.show()
	case SubcommandRef:
		return d.ref(ctx, inv.Argument)
	case SubcommandFiles:
		return d.files(inv.Argument)
	case SubcommandMatch:
		return d.match(inv.Argument)
	default:
		return fmt.Sprintf("Unknown subcommand: %s", inv.Subcommand)
	}
}

func (d *Dispatcher) list() string {
	if d.repo.Len() == 0 {
		return fmt.Sprintf("No skills found. Add skill folders under %s.", d.repo.Root())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Skills (%d):", d.repo.Len())
	for _, skill := range d.repo.List() {
		fmt.Fprintf(&b, "\n- %s: %s", skill.Name, skill.Description)
	}
	return b.String()
}

func (d *Dispatcher) use(ctx context.Context, name string) string {
	if name == "" {
		return usageUse
	}

	skill, err := d.repo.Lookup(name)
	if err != nil {
		msg := "Skill not found: " + name
		if suggestion, ok := d.repo.Closest(name); ok {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		return msg
	}

	d.session.Activate(skill)
	logger.G(ctx).WithField("skill", skill.Name).Info("skill activated")
	return "Activated skill: " + skill.Name
}

func (d *Dispatcher) show() string {
	state := d.session.Describe()
	if !state.Active {
		return "No active skill."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current skill: %s\n", state.Name)
	fmt.Fprintf(&b, "Description: %s\n", state.Description)
	if len(state.Resources) == 0 {
		b.WriteString("Resources: none loaded")
		return b.String()
	}
	b.WriteString("Resources:")
	for _, name := range state.Resources {
		fmt.Fprintf(&b, "\n- %s", name)
	}
	return b.String()
}

func (d *Dispatcher) ref(ctx context.Context, rel string) string {
	if !d.session.IsActive() {
		return msgNoActiveSkill
	}
	if rel == "" {
		return usageRef
	}

	err := d.session.LoadResource(rel)
	if err == nil {
		logger.G(ctx).WithField("resource", rel).Info("resource loaded")
		return "Loaded resource: " + rel
	}

	var readErr *skills.ResourceReadError
	switch {
	case errors.Is(err, skills.ErrNoActiveSkill):
		return msgNoActiveSkill
	case errors.Is(err, skills.ErrIllegalPath):
		logger.G(ctx).WithField("resource", rel).Warn("rejected resource outside the skill directory")
		return "Illegal path: " + rel
	case errors.Is(err, skills.ErrResourceNotFound):
		return "Resource not found: " + rel
	case errors.As(err, &readErr):
		return fmt.Sprintf("Failed to read resource: %v", readErr.Err)
	default:
		return fmt.Sprintf("Failed to read resource: %v", err)
	}
}

func (d *Dispatcher) files(pattern string) string {
	skill := d.session.Active()
	if skill == nil {
		return msgNoActiveSkill
	}

	files, err := skills.ListResourceFiles(skill.Directory, pattern)
	if err != nil {
		return fmt.Sprintf("Failed to list files: %v", err)
	}
	if len(files) == 0 {
		return fmt.Sprintf("No resource files in %s.", skill.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Files in %s (%d):", skill.Name, len(files))
	for _, f := range files {
		fmt.Fprintf(&b, "\n- %s", f)
	}
	return b.String()
}

func (d *Dispatcher) match(text string) string {
	if text == "" {
		return usageMatch
	}

	best, ok := d.repo.Best(text)
	if !ok {
		return "No matching skill."
	}
	return fmt.Sprintf("Best match: %s (score %d). Use /skill use %s to activate it.",
		best.Skill.Name, best.Score, best.Skill.Name)
}
