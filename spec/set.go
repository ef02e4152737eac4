package spec

import (
	"fmt"
	"strings"
)

// Set is a registry of component specifications keyed by component name.
type Set struct {
	order      []string
	components map[string]*Component
}

// NewSet returns a set holding the given components.
// It panics if two components share a name; use Add to handle that case.
func NewSet(components ...*Component) *Set {
	s := &Set{components: make(map[string]*Component, len(components))}
	for _, c := range components {
		if err := s.Add(c); err != nil {
			panic(err)
		}
	}
	return s
}

// Add registers c. Adding a second component with the same name is an
// error.
func (s *Set) Add(c *Component) error {
	key := strings.ToLower(c.Name)
	if _, ok := s.components[key]; ok {
		return fmt.Errorf("mf6io: duplicate component %q", c.Name)
	}
	s.components[key] = c
	s.order = append(s.order, key)
	return nil
}

// Get returns the named component, ignoring case.
func (s *Set) Get(name string) (*Component, bool) {
	c, ok := s.components[strings.ToLower(name)]
	return c, ok
}

// Names returns the component names in the order they were added.
func (s *Set) Names() []string {
	names := make([]string, len(s.order))
	for i, key := range s.order {
		names[i] = s.components[key].Name
	}
	return names
}

// Components returns the components in the order they were added.
func (s *Set) Components() []*Component {
	out := make([]*Component, len(s.order))
	for i, key := range s.order {
		out[i] = s.components[key]
	}
	return out
}

// Len returns the number of components in the set.
func (s *Set) Len() int { return len(s.order) }
