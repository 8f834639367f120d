package transform

import "github.com/enorganic/requirements/pkg/dag"

// BreakCycles removes the back edges of a depth-first search and returns
// them in discovery order. The search starts from the sources (sorted by
// ID) and then from any node not yet reached, so a cycle with no entry
// point is broken at its alphabetically first node.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
