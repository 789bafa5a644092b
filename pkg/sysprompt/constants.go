// Package sysprompt composes the system prompt sent with every chat turn from
// the base instructions and the state of the skill session.
package sysprompt

// DefaultBase is the instruction text every system prompt starts with.
const DefaultBase = "You are a helpful assistant. Answer clearly and step by step. " +
	"Give a short plan first, then the final answer."

const (
	activeSkillHeader     = "Active skill:"
	instructionsHeader    = "SKILL.md instructions:"
	loadedResourcesHeader = "Loaded resources:"
	resourceHeaderPrefix  = "### "
)
