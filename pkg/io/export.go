package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/enorganic/requirements/pkg/dag"
)

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID   string       `json:"id"`
	Row  int          `json:"row"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Cycle bool   `json:"cycle,omitempty"`
}

// WriteJSON encodes a requirement graph as indented JSON. Nodes are sorted
// by ID; edges keep insertion order.
func WriteJSON(g *dag.DAG, w io.Writer) error {
	nodes := g.Nodes()
	edges := g.Edges()
	out := graph{
		Nodes: make([]node, len(nodes)),
		Edges: make([]edge, len(edges)),
	}

	for i, n := range nodes {
		nd := node{ID: n.ID, Row: n.Row}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes[i] = nd
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.From, To: e.To, Cycle: e.IsCycle()}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a requirement graph to a JSON file at path.
func ExportJSON(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
