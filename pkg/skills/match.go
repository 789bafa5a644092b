package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is a skill scored against free text by Best.
type Match struct {
	Skill *Skill
	Score int
}

// Score rates how strongly text refers to skill: the whole name appearing in
// text counts 4, the whole description 3, and every name or description word
// of two or more characters 1.
func Score(skill *Skill, text string) int {
	name := strings.ToLower(skill.Name)
	description := strings.ToLower(skill.Description)
	text = strings.ToLower(text)

	score := 0
	if name != "" && strings.Contains(text, name) {
		score += 4
	}
	if description != "" && strings.Contains(text, description) {
		score += 3
	}

	for _, token := range tokenize(name + " " + description) {
		if strings.Contains(text, token) {
			score++
		}
	}
	return score
}

// Best returns the highest scoring skill for text. Ties go to the skill listed
// first; a zero score is no match.
func (r *Repository) Best(text string) (Match, bool) {
	var best Match
	for _, skill := range r.List() {
		if score := Score(skill, text); score > best.Score {
			best = Match{Skill: skill, Score: score}
		}
	}
	return best, best.Skill != nil
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
