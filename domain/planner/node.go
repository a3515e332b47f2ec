package planner

import (
	"errors"
	"sort"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// errUnsatisfiableGoal rejects a transition whose preconditions conflict
// with the accumulated goal state. It never leaves the package: a rejected
// transition simply contributes no edge.
var errUnsatisfiableGoal = errors.New("unsatisfiable goal encountered")

// node is an immutable (current_state, goal_state, action) snapshot. Every
// transition copies both maps; nodes are compared by pointer identity, so
// two paths reaching the same semantic state stay distinct.
type node struct {
	current world.State
	goal    world.State
	act     *action.Action
}

// services returns the resolved substitution table for the node's action:
// the current-state value of each service-tagged effect key.
func (n *node) services() world.State {
	services := world.New()
	for _, key := range n.act.ServiceKeys() {
		services.Set(key, n.current.Get(key))
	}
	return services
}

// unsatisfiedKeys returns, in sorted order, the goal keys whose current
// value is absent or differs. Sorting keeps expansion deterministic under
// Go's randomized map iteration.
func (n *node) unsatisfiedKeys() []string {
	var keys []string
	for key, want := range n.goal {
		if n.current.Get(key) != want {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (n *node) isSatisfied() bool {
	return len(n.unsatisfiedKeys()) == 0
}

// applyAction regresses the node through act, producing the neighbour that
// results from scheduling act before everything planned so far.
//
// Effects update the new current state: a service effect resolves to the
// value the present goal demands for that key; a literal effect whose key
// the action also declares as a literal precondition applies the
// precondition value instead (the action locally satisfies its own
// requirement); otherwise the literal applies. Preconditions then merge
// into the new goal state, with references resolving to the already
// concrete value of the referenced effect; goal keys newly introduced here
// are grounded into the current state from the live world.
func (n *node) applyAction(ws world.State, act *action.Action) (*node, error) {
	current := n.current.Clone()
	for key, effect := range act.Effects() {
		var value any
		if effect.Kind == action.KindService {
			value = n.goal.Get(key)
		} else if pre, ok := act.Preconditions()[key]; ok && pre.Kind == action.KindLiteral {
			value = pre.Literal
		} else {
			value = effect.Literal
		}
		current.Set(key, value)
	}

	goal := n.goal.Clone()
	for key, pre := range act.Preconditions() {
		var value any
		if pre.Kind == action.KindReference {
			value = current.Get(pre.Ref)
		} else {
			value = pre.Literal
		}

		// A key the action also produces as an effect updates the goal
		// locally: the effect loop above already applied the precondition
		// value to the current state, so the demand moves with it. Any
		// other key already fixed in the goal may only be restated, never
		// overwritten with a conflicting requirement.
		if _, isEffect := act.Effects()[key]; !isEffect {
			if fixed, ok := goal.Lookup(key); ok && fixed != value {
				return nil, errUnsatisfiableGoal
			}
		}
		goal.Set(key, value)

		if !current.Has(key) {
			current.Set(key, ws.Get(key))
		}
	}

	return &node{current: current, goal: goal, act: act}, nil
}
