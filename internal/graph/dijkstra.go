package graph

import (
	"container/heap"
	"math"
)

// pqItem is a priority-queue entry. Stale duplicates are pushed instead of
// decreasing keys and ignored on pop (lazy decrease-key).
type pqItem struct {
	node int64
	dist float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// banned carries the edge and node exclusions used by Yen's spur searches
type banned struct {
	edges map[int64]bool
	nodes map[int64]bool
}

// ShortestPath runs Dijkstra from source to target and reconstructs the
// cheapest path. Returns ErrVertexNotFound or ErrNoPath.
func (g *Graph) ShortestPath(source, target int64) (Path, error) {
	return g.shortestPath(source, target, banned{})
}

func (g *Graph) shortestPath(source, target int64, ban banned) (Path, error) {
	if !g.HasNode(source) || !g.HasNode(target) {
		return Path{}, ErrVertexNotFound
	}

	dist := make(map[int64]float64, len(g.adj))
	prevNode := make(map[int64]int64, len(g.adj))
	prevEdge := make(map[int64]int64, len(g.adj))
	visited := make(map[int64]bool, len(g.adj))

	dist[source] = 0
	pq := &priorityQueue{{node: source, dist: 0}}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		if visited[item.node] {
			continue
		}
		visited[item.node] = true
		if item.node == target {
			break
		}

		for _, arc := range g.adj[item.node] {
			if ban.edges[arc.EdgeID] || ban.nodes[arc.To] {
				continue
			}
			next := item.dist + arc.Weight
			if d, ok := dist[arc.To]; !ok || next < d {
				dist[arc.To] = next
				prevNode[arc.To] = item.node
				prevEdge[arc.To] = arc.EdgeID
				heap.Push(pq, pqItem{node: arc.To, dist: next})
			}
		}
	}

	if !visited[target] {
		return Path{}, ErrNoPath
	}

	// Reconstruct in reverse
	var nodes []int64
	var edges []int64
	for at := target; ; {
		nodes = append(nodes, at)
		if at == source {
			break
		}
		edges = append(edges, prevEdge[at])
		at = prevNode[at]
	}
	reverse64(nodes)
	reverse64(edges)

	return Path{Nodes: nodes, Edges: edges, Cost: dist[target]}, nil
}

// PathCost sums the weights of the given edge ids. Missing edges cost +Inf.
func (g *Graph) PathCost(edgeIDs []int64) float64 {
	var total float64
	for _, id := range edgeIDs {
		arc, ok := g.edges[id]
		if !ok {
			return math.Inf(1)
		}
		total += arc.Weight
	}
	return total
}

func reverse64(s []int64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
