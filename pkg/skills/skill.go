// Package skills implements the skill lifecycle of skillchat: discovering
// skill directories on disk, parsing their SKILL.md documents, tracking the
// active skill of a chat session and loading reference resources that live
// beneath the active skill's directory.
//
// A skill directory looks like:
//
//	skills/
//	  demo/
//	    SKILL.md
//	    notes.txt
//	    reference/api.md
//
// SKILL.md may open with a metadata block of "key: value" lines between two
// "---" delimiter lines; the remainder of the document is the instruction body.
package skills

import (
	"path/filepath"
	"strings"
)

const (
	skillFileName = "SKILL.md"

	// DefaultDescription is used when SKILL.md declares no description.
	DefaultDescription = "no description"

	metadataDelimiter = "---"
)

// Skill is a discovered skill. It is never mutated after Parse returns.
type Skill struct {
	Name        string // Unique key within a Repository
	Description string // One-line summary shown in listings
	Directory   string // Path of the directory owning SKILL.md and its resources
	Content     string // Instruction body of SKILL.md with metadata stripped
}

// Parse builds a Skill from the text of a SKILL.md document found in dir.
//
// Parsing never fails: malformed metadata lines are skipped and missing keys
// fall back to the directory's base name and DefaultDescription.
func Parse(dir, text string) *Skill {
	lines := splitLines(text)
	meta := map[string]string{}

	start := firstNonEmptyLine(lines)
	bodyStart := 0
	if start >= 0 && strings.TrimSpace(lines[start]) == metadataDelimiter {
		bodyStart = len(lines)
		for i := start + 1; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if line == metadataDelimiter {
				bodyStart = i + 1
				break
			}
			key, value, ok := parseMetadataLine(line)
			if ok {
				meta[key] = value
			}
		}
	}

	skill := &Skill{
		Name:        filepath.Base(dir),
		Description: DefaultDescription,
		Directory:   dir,
		Content:     strings.TrimSpace(strings.Join(lines[bodyStart:], "\n")),
	}
	if name := meta["name"]; name != "" {
		skill.Name = name
	}
	if description := meta["description"]; description != "" {
		skill.Description = description
	}
	return skill
}

// parseMetadataLine splits "key: value" on the first colon. Lines without a
// key are ignored.
func parseMetadataLine(line string) (string, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func firstNonEmptyLine(lines []string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return i
		}
	}
	return -1
}
