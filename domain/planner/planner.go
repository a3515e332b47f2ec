// Package planner implements regressive GOAP planning: best-first search
// backwards from the goal over an effect-to-action index.
//
// See Orkin, "Applying Goal-Oriented Action Planning to Games" (2003).
package planner

import (
	"sort"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/search"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// graph adapts regressive node expansion to the generic search.
type graph struct {
	world world.State
	index map[string][]*action.Action
}

// Neighbours generates, for each unsatisfied goal key, one node per indexed
// action whose effect can supply the demanded value. Candidates whose
// transition conflicts with the accumulated goal, or whose procedural
// precondition rejects the resolved services in planning mode, contribute
// no edge. The result is ordered by ascending action precedence: the open
// queue pops equal scores newest-first, so the last candidate pushed (the
// highest precedence) is tried first.
func (g *graph) Neighbours(n *node) []*node {
	var neighbours []*node

	for _, key := range n.unsatisfiedKeys() {
		goalValue := n.goal.Get(key)

		for _, act := range g.index[key] {
			effect := act.Effects()[key]
			if effect.Kind != action.KindService && effect.Literal != goalValue {
				continue
			}

			neighbour, err := n.applyAction(g.world, act)
			if err != nil {
				continue
			}
			if !act.CheckPrecondition(neighbour.services(), action.ModePlanning) {
				continue
			}
			neighbours = append(neighbours, neighbour)
		}
	}

	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].act.Precedence() < neighbours[j].act.Precedence()
	})
	return neighbours
}

// EdgeCost is the destination action's cost under its resolved services;
// the action lives on the destination node of the edge.
func (g *graph) EdgeCost(_, to *node) float64 {
	return to.act.Cost(to.services())
}

// Heuristic counts unsatisfied goal keys. Monotone in practice but not
// proven consistent, hence the search's reopen policy.
func (g *graph) Heuristic(n *node) float64 {
	return float64(len(n.unsatisfiedKeys()))
}

// IsFinished terminates on any node with zero unsatisfied keys.
func (g *graph) IsFinished(n *node, _ map[*node]*node) bool {
	return n.isSatisfied()
}

// Planner computes plans over a fixed action set and a live world state.
// The effect index is built once per planner. The world is treated as
// read-only ground truth for the duration of every FindPlan call.
type Planner struct {
	world world.State
	index map[string][]*action.Action
}

// New returns a planner over the given world and explicit action set.
func New(ws world.State, actions []*action.Action) *Planner {
	return &Planner{
		world: ws,
		index: buildEffectIndex(actions),
	}
}

// buildEffectIndex maps each effect key to the actions declaring it, in
// registration order.
func buildEffectIndex(actions []*action.Action) map[string][]*action.Action {
	index := make(map[string][]*action.Action)
	for _, act := range actions {
		for key := range act.Effects() {
			index[key] = append(index[key], act)
		}
	}
	return index
}

// FindPlan searches backwards from goalState and returns the ordered plan,
// prerequisites first, with service values bound at the moment each node
// became concrete. It fails with search.ErrPathNotFound when no action
// sequence can satisfy the goal. An already-satisfied goal yields an empty
// plan.
func (p *Planner) FindPlan(goalState world.State, opts ...plan.Option) (*plan.Plan, error) {
	start := &node{
		current: world.New(),
		goal:    goalState.Clone(),
	}
	for key := range goalState {
		start.current.Set(key, p.world.Get(key))
	}

	path, err := search.FindPath[*node](&graph{world: p.world, index: p.index}, start)
	if err != nil {
		return nil, err
	}

	// The path runs from the synthetic origin (the goal itself) to the
	// first action to execute. Reverse it, discard the origin, and pair
	// each node with its successor's goal state.
	steps := make([]plan.Step, 0, len(path)-1)
	for i := len(path) - 1; i >= 1; i-- {
		n := path[i]
		steps = append(steps, plan.Step{
			Action:    n.act,
			Services:  n.services(),
			GoalState: path[i-1].goal.Clone(),
		})
	}

	return plan.New(p.world, steps, opts...), nil
}
