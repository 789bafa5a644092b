package skills

import (
	"github.com/pkg/errors"
)

// ErrNoActiveSkill is returned when a resource is loaded without an active skill.
var ErrNoActiveSkill = errors.New("no active skill")

// Resource is a loaded reference file, keyed by the relative path it was
// requested with.
type Resource struct {
	Path    string
	Content string
}

// State is a read-only snapshot of a Session for display.
type State struct {
	Active      bool
	Name        string
	Description string
	Resources   []string
}

// Session tracks at most one active skill and the resources loaded for it.
//
// A Session is driven from a single goroutine and is not safe for concurrent use.
type Session struct {
	active    *Skill
	resources []Resource
	index     map[string]int
}

// NewSession returns an idle session. The zero value is also idle and ready to use.
func NewSession() *Session {
	return &Session{index: make(map[string]int)}
}

// Activate makes skill the active skill and discards all loaded resources,
// even when skill is already active.
func (s *Session) Activate(skill *Skill) {
	s.active = skill
	s.reset()
}

// Clear deactivates the current skill and discards its resources.
func (s *Session) Clear() {
	s.active = nil
	s.reset()
}

func (s *Session) reset() {
	s.resources = nil
	s.index = make(map[string]int)
}

// Active returns the active skill, or nil when idle.
func (s *Session) Active() *Skill {
	return s.active
}

// IsActive reports whether a skill is active.
func (s *Session) IsActive() bool {
	return s.active != nil
}

// Resources returns the loaded resources in load order.
func (s *Session) Resources() []Resource {
	out := make([]Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// LoadResource reads rel from the active skill's directory and stores its
// content under rel. Loading the same path again replaces the content in place.
// On any error the loaded resources are left untouched.
func (s *Session) LoadResource(rel string) error {
	if s.active == nil {
		return ErrNoActiveSkill
	}

	content, err := ReadResource(s.active.Directory, rel)
	if err != nil {
		return err
	}

	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, exists := s.index[rel]; exists {
		s.resources[i].Content = content
		return nil
	}
	s.index[rel] = len(s.resources)
	s.resources = append(s.resources, Resource{Path: rel, Content: content})
	return nil
}

// Describe returns a snapshot of the session state.
func (s *Session) Describe() State {
	if s.active == nil {
		return State{}
	}

	names := make([]string, len(s.resources))
	for i, r := range s.resources {
		names[i] = r.Path
	}
	return State{
		Active:      true,
		Name:        s.active.Name,
		Description: s.active.Description,
		Resources:   names,
	}
}
