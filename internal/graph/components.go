package graph

// ConnectedComponents assigns a component id to every node via breadth-first
// search. Component ids are dense, starting at 0, assigned in ascending node
// order for determinism.
func (g *Graph) ConnectedComponents() map[int64]int {
	comp := make(map[int64]int, len(g.adj))
	next := 0

	for _, start := range g.Nodes() {
		if _, seen := comp[start]; seen {
			continue
		}
		queue := []int64{start}
		comp[start] = next
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, arc := range g.adj[cur] {
				if _, seen := comp[arc.To]; !seen {
					comp[arc.To] = next
					queue = append(queue, arc.To)
				}
			}
		}
		next++
	}
	return comp
}

// ComponentCount returns the number of connected components
func (g *Graph) ComponentCount() int {
	comp := g.ConnectedComponents()
	max := -1
	for _, c := range comp {
		if c > max {
			max = c
		}
	}
	return max + 1
}
