// Package search provides the generic best-first graph search and the
// removal-capable priority queue backing it.
package search

import "errors"

// ErrPathNotFound is returned when the open set empties without reaching a
// finishing node.
var ErrPathNotFound = errors.New("path not found")

// Graph abstracts the search space. Node identity keys the score maps, so
// nodes must be comparable; pointer nodes give per-object identity.
type Graph[N comparable] interface {
	// Neighbours returns the nodes reachable from node in expansion order.
	Neighbours(node N) []N

	// EdgeCost returns the cost of moving from one node to a neighbour.
	EdgeCost(from, to N) float64

	// Heuristic estimates the remaining cost from node to a finishing node.
	Heuristic(node N) float64

	// IsFinished reports whether node terminates the search. It is a
	// predicate, not node equality, so multiple finishing states are
	// supported.
	IsFinished(node N, parents map[N]N) bool
}

// FindPath runs best-first search from start and returns the path in
// start-to-goal order, or ErrPathNotFound. The open set is keyed by
// f = g + h with scores frozen at insertion; when a node's g improves the
// stale open entry is removed and the node reinserted under the new score.
//
// Closed nodes are reopened on a strictly better g-score. The callers'
// heuristics are not required to be consistent, and freezing closed nodes
// is only sound under a consistent heuristic.
func FindPath[N comparable](g Graph[N], start N) ([]N, error) {
	gScores := map[N]float64{start: 0}
	fScores := map[N]float64{start: g.Heuristic(start)}
	parents := make(map[N]N)
	closed := make(map[N]struct{})

	open := NewQueue[N](func(n N) float64 { return fScores[n] })
	if err := open.Push(start); err != nil {
		return nil, err
	}

	for {
		current, ok := open.Pop()
		if !ok {
			return nil, ErrPathNotFound
		}

		if g.IsFinished(current, parents) {
			return reconstructPath(current, parents), nil
		}
		closed[current] = struct{}{}

		for _, neighbour := range g.Neighbours(current) {
			tentative := gScores[current] + g.EdgeCost(current, neighbour)
			if best, seen := gScores[neighbour]; seen && tentative >= best {
				continue
			}
			delete(closed, neighbour)

			parents[neighbour] = current
			gScores[neighbour] = tentative
			fScores[neighbour] = tentative + g.Heuristic(neighbour)

			open.Remove(neighbour)
			if err := open.Push(neighbour); err != nil {
				return nil, err
			}
		}
	}
}

func reconstructPath[N comparable](node N, parents map[N]N) []N {
	path := []N{node}
	for {
		parent, ok := parents[node]
		if !ok {
			break
		}
		path = append(path, parent)
		node = parent
	}
	// Walked child to root; reverse into start-to-goal order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
