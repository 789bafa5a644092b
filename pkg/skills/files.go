package skills

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// DefaultFilePattern matches every file beneath a skill directory.
const DefaultFilePattern = "**"

// ListResourceFiles returns the slash-separated paths, relative to the skill
// directory, of the regular files matching pattern. SKILL.md itself is omitted.
func ListResourceFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultFilePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Wrapf(doublestar.ErrBadPattern, "pattern %q", pattern)
	}

	// WalkDir does not descend into a symlinked root
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve skill directory")
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == skillFileName {
			return nil
		}

		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return err
		}
		if matched {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list skill files")
	}

	sort.Strings(files)
	return files, nil
}
