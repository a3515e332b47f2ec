// Package world defines the shared mutable symbol table consulted by the
// planner and mutated by plan execution.
package world

import "maps"

// Undefined is reported for keys a State does not define. It compares
// unequal to every literal value, so a goal key grounded from a world that
// lacks it always counts as unsatisfied.
var Undefined undefinedValue

type undefinedValue struct{}

func (undefinedValue) String() string { return "<undefined>" }

// State is a string-keyed mapping of opaque values. Values must be
// comparable with ==; the planner and executor never inspect them beyond
// equality. The map is externally owned: the planner reads it during a
// search pass, and plan execution is the sole mutator.
type State map[string]any

// New returns an empty state.
func New() State {
	return make(State)
}

// Get returns the value for key, or Undefined when the key is absent.
func (s State) Get(key string) any {
	if v, ok := s[key]; ok {
		return v
	}
	return Undefined
}

// Lookup returns the value for key and whether it is defined.
func (s State) Lookup(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Set stores value under key.
func (s State) Set(key string, value any) {
	s[key] = value
}

// Has reports whether key is defined.
func (s State) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Clone returns an independent shallow copy.
func (s State) Clone() State {
	if s == nil {
		return New()
	}
	return maps.Clone(s)
}

// Satisfies reports whether every key of the partial state goal holds the
// same value in s. Absent keys read as Undefined and therefore fail any
// literal requirement.
func (s State) Satisfies(goal State) bool {
	for key, want := range goal {
		if s.Get(key) != want {
			return false
		}
	}
	return true
}
