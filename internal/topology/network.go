// Package topology turns split trail segments into a routable node/edge
// network: endpoint clustering, degree bookkeeping and degree-2 merging.
package topology

import (
	"sort"

	"github.com/trailatlas/trailgraph-backend-go/internal/graph"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
)

// Network is the mutable working graph of one staging dataset. Node and edge
// mutation is serialized per dataset; Network is not safe for concurrent
// writes.
type Network struct {
	Nodes map[int64]*models.Node
	Edges map[int64]*models.Edge

	incidence  map[int64][]int64 // node id -> incident edge ids
	nextNodeID int64
	nextEdgeID int64
}

// NewNetwork creates an empty network
func NewNetwork() *Network {
	return &Network{
		Nodes:     make(map[int64]*models.Node),
		Edges:     make(map[int64]*models.Edge),
		incidence: make(map[int64][]int64),
	}
}

// AddNode inserts a node, assigning an id if unset
func (n *Network) AddNode(node *models.Node) *models.Node {
	if node.ID == 0 {
		n.nextNodeID++
		node.ID = n.nextNodeID
	} else if node.ID > n.nextNodeID {
		n.nextNodeID = node.ID
	}
	n.Nodes[node.ID] = node
	return node
}

// AddEdge inserts an edge, assigning an id if unset, and updates incidence
func (n *Network) AddEdge(edge *models.Edge) *models.Edge {
	if edge.ID == 0 {
		n.nextEdgeID++
		edge.ID = n.nextEdgeID
	} else if edge.ID > n.nextEdgeID {
		n.nextEdgeID = edge.ID
	}
	n.Edges[edge.ID] = edge
	n.incidence[edge.SourceNodeID] = append(n.incidence[edge.SourceNodeID], edge.ID)
	n.incidence[edge.TargetNodeID] = append(n.incidence[edge.TargetNodeID], edge.ID)
	n.bumpDegree(edge.SourceNodeID, 1)
	n.bumpDegree(edge.TargetNodeID, 1)
	return edge
}

// RemoveEdge deletes an edge and updates incidence and degrees
func (n *Network) RemoveEdge(edgeID int64) {
	edge, ok := n.Edges[edgeID]
	if !ok {
		return
	}
	delete(n.Edges, edgeID)
	n.incidence[edge.SourceNodeID] = removeID(n.incidence[edge.SourceNodeID], edgeID)
	n.incidence[edge.TargetNodeID] = removeID(n.incidence[edge.TargetNodeID], edgeID)
	n.bumpDegree(edge.SourceNodeID, -1)
	n.bumpDegree(edge.TargetNodeID, -1)
}

// RemoveNode deletes a node. Callers must remove incident edges first.
func (n *Network) RemoveNode(nodeID int64) {
	delete(n.Nodes, nodeID)
	delete(n.incidence, nodeID)
}

// IncidentEdges returns the edges touching a node, ordered by edge id
func (n *Network) IncidentEdges(nodeID int64) []*models.Edge {
	ids := n.incidence[nodeID]
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make([]*models.Edge, 0, len(sorted))
	for _, id := range sorted {
		if e, ok := n.Edges[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Degree returns the current degree of a node
func (n *Network) Degree(nodeID int64) int {
	return len(n.incidence[nodeID])
}

// NodeIDs returns all node ids in ascending order
func (n *Network) NodeIDs() []int64 {
	out := make([]int64, 0, len(n.Nodes))
	for id := range n.Nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EdgeIDs returns all edge ids in ascending order
func (n *Network) EdgeIDs() []int64 {
	out := make([]int64, 0, len(n.Edges))
	for id := range n.Edges {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RecomputeDegrees rebuilds every node's degree from the incidence index
func (n *Network) RecomputeDegrees() {
	for id, node := range n.Nodes {
		node.Degree = len(n.incidence[id])
	}
}

// TotalLengthKm sums the lengths of all edges
func (n *Network) TotalLengthKm() float64 {
	var total float64
	for _, e := range n.Edges {
		total += e.LengthKm
	}
	return total
}

// ToGraph converts the network into a routing graph weighted by edge length
// in meters
func (n *Network) ToGraph() *graph.Graph {
	g := graph.New()
	for id := range n.Nodes {
		g.AddNode(id)
	}
	for _, id := range n.EdgeIDs() {
		e := n.Edges[id]
		_ = g.AddEdge(e.ID, e.SourceNodeID, e.TargetNodeID, e.LengthKm*1000)
	}
	return g
}

func (n *Network) bumpDegree(nodeID int64, delta int) {
	if node, ok := n.Nodes[nodeID]; ok {
		node.Degree += delta
	}
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
