// Package goal defines desired partial world states with a relevance score
// the Director uses to pick what to plan for.
package goal

import (
	"errors"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

// ErrNoState indicates the definition declares no target state.
var ErrNoState = errors.New("goal requires a non-empty target state")

// Definition describes a goal.
type Definition struct {
	// Name identifies the goal in logs.
	Name string

	// State is the partial world state the goal demands.
	State world.State

	// Priority is the fixed relevance. Zero defaults to 1 when Relevance
	// is not set.
	Priority float64

	// Relevance, when set, computes relevance from the current world state
	// and overrides Priority. Non-positive relevance removes the goal from
	// consideration for the tick.
	Relevance func(ws world.State) float64
}

// Goal is an immutable goal. Construct with New.
type Goal struct {
	def Definition
}

// New validates a definition and returns the goal.
func New(def Definition) (*Goal, error) {
	if len(def.State) == 0 {
		return nil, ErrNoState
	}
	if def.Priority == 0 && def.Relevance == nil {
		def.Priority = 1
	}
	def.State = def.State.Clone()
	return &Goal{def: def}, nil
}

// MustNew is New, panicking on invalid definitions.
func MustNew(def Definition) *Goal {
	g, err := New(def)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the goal name.
func (g *Goal) Name() string { return g.def.Name }

// State returns a copy of the target partial state.
func (g *Goal) State() world.State { return g.def.State.Clone() }

// Relevance returns the goal's relevance under the given world state.
// Larger is more relevant; non-positive means not relevant this tick.
func (g *Goal) Relevance(ws world.State) float64 {
	if g.def.Relevance != nil {
		return g.def.Relevance(ws)
	}
	return g.def.Priority
}

// IsSatisfied reports whether the world already meets the target state.
func (g *Goal) IsSatisfied(ws world.State) bool {
	return ws.Satisfies(g.def.State)
}

func (g *Goal) String() string { return g.def.Name }
