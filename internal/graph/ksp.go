package graph

import (
	"errors"
	"sort"
)

// KShortestPaths returns up to k loopless lowest-cost paths from source to
// target using Yen's algorithm. The first path is the Dijkstra shortest path;
// each subsequent path is the cheapest deviation from an earlier one.
// Returns ErrNoPath only when no path exists at all; fewer than k paths is
// not an error.
func (g *Graph) KShortestPaths(source, target int64, k int) ([]Path, error) {
	if k <= 0 {
		return nil, nil
	}

	first, err := g.ShortestPath(source, target)
	if err != nil {
		return nil, err
	}

	accepted := []Path{first}
	var candidates []Path

	for len(accepted) < k {
		prev := accepted[len(accepted)-1]

		// Branch at every node of the previous path except the last
		for i := 0; i < len(prev.Nodes)-1; i++ {
			spurNode := prev.Nodes[i]
			rootNodes := prev.Nodes[:i+1]
			rootEdges := prev.Edges[:i]

			ban := banned{
				edges: make(map[int64]bool),
				nodes: make(map[int64]bool),
			}

			// Ban edges that would recreate an already accepted path with
			// the same root
			for _, p := range accepted {
				if len(p.Nodes) > i && equalPrefix(p.Nodes, rootNodes) && len(p.Edges) > i {
					ban.edges[p.Edges[i]] = true
				}
			}
			// Ban root nodes (except the spur node) to keep paths loopless
			for _, n := range rootNodes[:len(rootNodes)-1] {
				ban.nodes[n] = true
			}

			spur, err := g.shortestPath(spurNode, target, ban)
			if err != nil {
				if errors.Is(err, ErrNoPath) {
					continue
				}
				return nil, err
			}

			total := Path{
				Nodes: append(append([]int64{}, rootNodes...), spur.Nodes[1:]...),
				Edges: append(append([]int64{}, rootEdges...), spur.Edges...),
			}
			total.Cost = g.PathCost(total.Edges)

			if !containsPath(accepted, total) && !containsPath(candidates, total) {
				candidates = append(candidates, total)
			}
		}

		if len(candidates) == 0 {
			break
		}

		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Cost < candidates[j].Cost })
		accepted = append(accepted, candidates[0])
		candidates = candidates[1:]
	}

	return accepted, nil
}

func equalPrefix(nodes, prefix []int64) bool {
	if len(nodes) < len(prefix) {
		return false
	}
	for i, n := range prefix {
		if nodes[i] != n {
			return false
		}
	}
	return true
}

func containsPath(paths []Path, p Path) bool {
	for _, q := range paths {
		if equalEdges(q.Edges, p.Edges) {
			return true
		}
	}
	return false
}

func equalEdges(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
