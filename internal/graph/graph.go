// Package graph provides the routing graph primitives used by route
// generation: shortest paths, k-shortest-paths and connected components over
// an undirected weighted adjacency list.
package graph

import (
	"errors"
	"sort"
)

// Sentinel errors
var (
	// ErrVertexNotFound indicates that a source or target vertex does not
	// exist in the graph
	ErrVertexNotFound = errors.New("graph: vertex not found")

	// ErrNoPath indicates that no path exists between source and target
	ErrNoPath = errors.New("graph: no path between vertices")

	// ErrNegativeWeight indicates a negative edge weight was supplied
	ErrNegativeWeight = errors.New("graph: negative edge weight")
)

// Arc is one direction of an undirected edge
type Arc struct {
	EdgeID int64
	From   int64
	To     int64
	Weight float64 // meters
}

// Path is an ordered walk through the graph
type Path struct {
	Nodes []int64
	Edges []int64
	Cost  float64
}

// Clone returns a deep copy of the path
func (p Path) Clone() Path {
	nodes := make([]int64, len(p.Nodes))
	copy(nodes, p.Nodes)
	edges := make([]int64, len(p.Edges))
	copy(edges, p.Edges)
	return Path{Nodes: nodes, Edges: edges, Cost: p.Cost}
}

// Graph is an undirected weighted graph keyed by int64 node ids
type Graph struct {
	adj   map[int64][]Arc
	edges map[int64]Arc // canonical direction, for weight lookups
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		adj:   make(map[int64][]Arc),
		edges: make(map[int64]Arc),
	}
}

// AddNode ensures a node exists even if it has no edges yet
func (g *Graph) AddNode(id int64) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = nil
	}
}

// AddEdge inserts an undirected edge. Returns ErrNegativeWeight for weight < 0.
func (g *Graph) AddEdge(edgeID, from, to int64, weight float64) error {
	if weight < 0 {
		return ErrNegativeWeight
	}
	g.AddNode(from)
	g.AddNode(to)
	g.adj[from] = append(g.adj[from], Arc{EdgeID: edgeID, From: from, To: to, Weight: weight})
	g.adj[to] = append(g.adj[to], Arc{EdgeID: edgeID, From: to, To: from, Weight: weight})
	g.edges[edgeID] = Arc{EdgeID: edgeID, From: from, To: to, Weight: weight}
	return nil
}

// HasNode reports whether the node exists
func (g *Graph) HasNode(id int64) bool {
	_, ok := g.adj[id]
	return ok
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Degree returns the number of incident edges of a node
func (g *Graph) Degree(id int64) int {
	return len(g.adj[id])
}

// Neighbors returns the adjacent node ids in deterministic order
func (g *Graph) Neighbors(id int64) []int64 {
	arcs := g.adj[id]
	out := make([]int64, 0, len(arcs))
	seen := make(map[int64]bool, len(arcs))
	for _, a := range arcs {
		if !seen[a.To] {
			seen[a.To] = true
			out = append(out, a.To)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Nodes returns all node ids in ascending order
func (g *Graph) Nodes() []int64 {
	out := make([]int64, 0, len(g.adj))
	for id := range g.adj {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
