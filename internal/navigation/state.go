package navigation

import "fmt"

// Route is one entry of a navigator. A route hosting a nested navigator
// (a tab bar inside a stack, for instance) carries that navigator's
// state in State.
type Route struct {
	Key   string `json:"key,omitempty"`
	Name  string `json:"name"`
	State *State `json:"state,omitempty"`
}

// State is the state of one navigator: its routes and the index of the
// focused one.
type State struct {
	Index  int     `json:"index"`
	Routes []Route `json:"routes"`
}

// Single returns a one-route state focused on name.
func Single(name string) *State {
	return &State{Routes: []Route{{Key: name, Name: name}}}
}

// Focused returns the focused route of this navigator.
func (s *State) Focused() (Route, bool) {
	if s == nil || s.Index < 0 || s.Index >= len(s.Routes) {
		return Route{}, false
	}
	return s.Routes[s.Index], true
}

// ActiveRoute descends through focused routes and returns the deepest
// one. It reports false when no route can be determined.
func (s *State) ActiveRoute() (Route, bool) {
	r, ok := s.Focused()
	if !ok {
		return Route{}, false
	}
	for depth := 0; r.State != nil; depth++ {
		if depth >= maxDepth {
			return Route{}, false
		}
		child, ok := r.State.Focused()
		if !ok {
			// An empty nested navigator still has a focused parent.
			break
		}
		r = child
	}
	return r, true
}

// ActiveRouteName returns the name of the deepest focused route.
// Blank names count as undeterminable.
func (s *State) ActiveRouteName() (string, bool) {
	r, ok := s.ActiveRoute()
	if !ok || r.Name == "" {
		return "", false
	}
	return r.Name, true
}

// Validate checks index bounds at every level.
func (s *State) Validate() error {
	return s.validate(0)
}

func (s *State) validate(depth int) error {
	if s == nil {
		return fmt.Errorf("navigation state is nil")
	}
	if depth >= maxDepth {
		return fmt.Errorf("navigation state nested deeper than %d", maxDepth)
	}
	if len(s.Routes) == 0 {
		return fmt.Errorf("navigation state has no routes")
	}
	if s.Index < 0 || s.Index >= len(s.Routes) {
		return fmt.Errorf("index %d out of range [0,%d)", s.Index, len(s.Routes))
	}
	for i, r := range s.Routes {
		if r.Name == "" {
			return fmt.Errorf("route %d has no name", i)
		}
		if r.State != nil {
			if err := r.State.validate(depth + 1); err != nil {
				return fmt.Errorf("route %q: %w", r.Name, err)
			}
		}
	}
	return nil
}

const maxDepth = 16
