package skills

import (
	"context"
	"os"
	"path/filepath"

	"github.com/agnivade/levenshtein"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jingkaihe/skillchat/pkg/logger"
)

// ErrSkillNotFound is returned by Repository.Get for unknown skill names.
var ErrSkillNotFound = errors.New("skill not found")

// maxSuggestionDistance bounds how far a name may be from a known skill name
// to be offered as a suggestion.
const maxSuggestionDistance = 3

// Repository is the name-keyed skill catalog built by Scan.
type Repository struct {
	root   string
	skills map[string]*Skill
	order  []string
}

// NewRepository creates an empty catalog rooted at root. Most callers want Scan.
func NewRepository(root string) *Repository {
	return &Repository{
		root:   root,
		skills: make(map[string]*Skill),
	}
}

// Scan builds a catalog from the immediate subdirectories of root that contain
// a SKILL.md file. A missing root yields an empty catalog.
//
// Subdirectories are visited in lexical order, so when two directories declare
// the same skill name the lexically last one wins.
func Scan(ctx context.Context, root string) *Repository {
	log := logger.G(ctx).WithField("skills_dir", root)
	r := NewRepository(root)

	if absRoot, err := filepath.Abs(root); err == nil {
		r.root = absRoot
	}

	info, err := os.Stat(r.root)
	if err != nil || !info.IsDir() {
		log.Debug("skills directory not found, starting with an empty catalog")
		return r
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		log.WithError(err).Warn("failed to read skills directory")
		return r
	}

	for _, entry := range entries {
		dir := filepath.Join(r.root, entry.Name())

		// os.Stat follows symlinked skill directories
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		skill, err := loadSkill(dir)
		if err != nil {
			if !os.IsNotExist(errors.Cause(err)) {
				log.WithError(err).WithField("dir", dir).Warn("skipping unreadable skill")
			}
			continue
		}

		if prev, exists := r.skills[skill.Name]; exists {
			log.WithFields(logrus.Fields{
				"skill":    skill.Name,
				"replaced": prev.Directory,
				"by":       dir,
			}).Debug("duplicate skill name, later directory wins")
		}
		r.add(skill)
	}

	log.WithField("count", len(r.order)).Debug("skills discovered")
	return r
}

// loadSkill reads and parses dir/SKILL.md. Directories without a regular
// SKILL.md return an os.ErrNotExist cause.
func loadSkill(dir string) (*Skill, error) {
	path := filepath.Join(dir, skillFileName)
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat skill file")
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Wrap(os.ErrNotExist, "skill file is not a regular file")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}
	return Parse(dir, string(content)), nil
}

// add inserts skill, replacing any entry with the same name in place.
func (r *Repository) add(skill *Skill) {
	if _, exists := r.skills[skill.Name]; !exists {
		r.order = append(r.order, skill.Name)
	}
	r.skills[skill.Name] = skill
}

// Root returns the directory the catalog was scanned from.
func (r *Repository) Root() string {
	return r.root
}

// Len returns the number of skills in the catalog.
func (r *Repository) Len() int {
	return len(r.order)
}

// List returns the skills in insertion order.
func (r *Repository) List() []*Skill {
	list := make([]*Skill, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.skills[name])
	}
	return list
}

// Get returns the skill with exactly the given name.
func (r *Repository) Get(name string) (*Skill, error) {
	skill, exists := r.skills[name]
	if !exists {
		return nil, errors.Wrapf(ErrSkillNotFound, "skill '%s'", name)
	}
	return skill, nil
}

// Lookup resolves ref to a skill by exact name, falling back to the skill
// whose directory base name is exactly ref. The fallback lets a skill be
// addressed by the folder it lives in when its declared name differs.
func (r *Repository) Lookup(ref string) (*Skill, error) {
	if skill, err := r.Get(ref); err == nil {
		return skill, nil
	}
	for _, name := range r.order {
		skill := r.skills[name]
		if filepath.Base(skill.Directory) == ref {
			return skill, nil
		}
	}
	return nil, errors.Wrapf(ErrSkillNotFound, "skill '%s'", ref)
}

// Closest returns the known skill name nearest to name by edit distance, if
// one is close enough to be a plausible typo.
func (r *Repository) Closest(name string) (string, bool) {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, candidate := range r.order {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best, best != ""
}
