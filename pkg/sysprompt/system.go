package sysprompt

import (
	"strings"

	"github.com/jingkaihe/skillchat/pkg/skills"
)

// Compose returns base followed by the active skill's metadata, instructions
// and loaded resources. An idle session yields base unchanged.
//
// The output depends only on base and the session state, so identical state
// always produces an identical prompt.
func Compose(base string, session *skills.Session) string {
	skill := session.Active()
	if skill == nil {
		return base
	}

	var b strings.Builder
	b.WriteString(base)

	b.WriteString("\n\n" + activeSkillHeader + "\n")
	b.WriteString("name: " + skill.Name + "\n")
	b.WriteString("description: " + skill.Description + "\n\n")
	b.WriteString(instructionsHeader + "\n")
	b.WriteString(skill.Content + "\n")

	resources := session.Resources()
	if len(resources) > 0 {
		b.WriteString("\n" + loadedResourcesHeader + "\n")
		for _, r := range resources {
			b.WriteString(resourceHeaderPrefix + r.Path + "\n")
			b.WriteString(r.Content + "\n")
		}
	}

	return b.String()
}
