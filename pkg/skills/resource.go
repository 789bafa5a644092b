package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

var (
	// ErrIllegalPath is returned when a resource path resolves outside the
	// skill directory.
	ErrIllegalPath = errors.New("illegal path")

	// ErrResourceNotFound is returned when a resource path does not name a
	// regular file.
	ErrResourceNotFound = errors.New("resource not found")
)

// ResourceReadError reports a resource that exists but could not be read.
type ResourceReadError struct {
	Path string
	Err  error
}

func (e *ResourceReadError) Error() string {
	return fmt.Sprintf("failed to read resource %s: %v", e.Path, e.Err)
}

func (e *ResourceReadError) Unwrap() error {
	return e.Err
}

// ResolveResource resolves rel against the skill directory dir and returns the
// real path of the file it names.
//
// The result always lies inside dir: ".." segments, absolute paths and
// symlinks that lead outside dir are rejected with ErrIllegalPath.
func ResolveResource(dir, rel string) (string, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve skill directory")
	}

	candidate := rel
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, rel)
	}
	candidate = filepath.Clean(candidate)

	if !isWithinDir(candidate, base) {
		return "", errors.Wrapf(ErrIllegalPath, "%s", rel)
	}

	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve skill directory")
	}

	realCandidate, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if isMissing(err) {
			return "", errors.Wrapf(ErrResourceNotFound, "%s", rel)
		}
		return "", &ResourceReadError{Path: rel, Err: err}
	}

	if !isWithinDir(realCandidate, realBase) {
		return "", errors.Wrapf(ErrIllegalPath, "%s", rel)
	}

	info, err := os.Stat(realCandidate)
	if err != nil {
		if isMissing(err) {
			return "", errors.Wrapf(ErrResourceNotFound, "%s", rel)
		}
		return "", &ResourceReadError{Path: rel, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", errors.Wrapf(ErrResourceNotFound, "%s", rel)
	}

	return realCandidate, nil
}

// ReadResource resolves rel under dir and returns its trimmed content.
func ReadResource(dir, rel string) (string, error) {
	path, err := ResolveResource(dir, rel)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", &ResourceReadError{Path: rel, Err: err}
	}
	return strings.TrimSpace(string(content)), nil
}

// isMissing reports whether err means the path names nothing, including a
// path that runs through a regular file.
func isMissing(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR)
}

// isWithinDir reports whether path equals dir or lies beneath it. Both must be
// clean absolute paths.
func isWithinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
