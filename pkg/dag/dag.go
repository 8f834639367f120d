package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata keys set by the freeze pipeline on nodes and edges.
const (
	MetaVersion  = "version"  // Installed or latest version
	MetaDisplay  = "display"  // Name as published
	MetaEditable = "editable" // Project directory of an editable install
	MetaRoot     = "root"     // Requested directly
	MetaCycle    = "cycle"    // Edge closes a requirement cycle
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. Maps are never nil after AddNode/AddEdge/New.
type Metadata map[string]any

// Node is a distribution in the requirement graph.
type Node struct {
	ID   string   // Canonical distribution name
	Row  int      // Layer assignment (0 = roots, increasing with depth)
	Meta Metadata // Version, display name and flags (never nil after AddNode)
}

// IsRoot reports whether the node was requested directly.
func (n Node) IsRoot() bool {
	root, _ := n.Meta[MetaRoot].(bool)
	return root
}

// Version returns the recorded version, or "".
func (n Node) Version() string {
	v, _ := n.Meta[MetaVersion].(string)
	return v
}

// Edge is a "From requires To" relation.
type Edge struct {
	From string   // Dependent
	To   string   // Dependency
	Meta Metadata // Edge flags (never nil after AddEdge)
}

// IsCycle reports whether the edge was removed to break a cycle and added
// back for display.
func (e Edge) IsCycle() bool {
	c, _ := e.Meta[MetaCycle].(bool)
	return c
}

// DAG is a directed requirement graph with optional layer assignments.
//
// The zero value is not usable; use New. A DAG is not safe for concurrent
// use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// AddNode adds a node. It returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID if the ID is taken.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.nodes[n.ID] = &n
	return nil
}

// SetRows updates row assignments. Nodes not present in rows keep theirs.
func (d *DAG) SetRows(rows map[string]int) {
	for id, row := range rows {
		if n, ok := d.nodes[id]; ok {
			n.Row = row
		}
	}
}

// AddEdge adds a directed edge between two existing nodes. A repeated
// edge is ignored.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(d.outgoing[e.From], e.To) {
		return nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// Nodes returns all nodes sorted by ID. The pointers refer to the graph's
// nodes.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, id := range slices.Sorted(maps.Keys(d.nodes)) {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of the node's direct requirements in insertion
// order. The slice must not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of nodes that require id.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// NodesInRow returns the nodes assigned to row, sorted by ID.
func (d *DAG) NodesInRow(row int) []*Node {
	var out []*Node
	for _, n := range d.Nodes() {
		if n.Row == row {
			out = append(out, n)
		}
	}
	return out
}

// RowIDs returns all row indices in ascending order.
func (d *DAG) RowIDs() []int {
	rows := make(map[int]struct{})
	for _, n := range d.nodes {
		rows[n.Row] = struct{}{}
	}
	return slices.Sorted(maps.Keys(rows))
}

// MaxRow returns the highest row index, or 0 if the graph is empty.
func (d *DAG) MaxRow() int {
	ids := d.RowIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// Sources returns nodes with no incoming edges, sorted by ID.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.Nodes() {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, sorted by ID.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, n := range d.Nodes() {
		if len(d.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate returns ErrInvalidEdgeEndpoint if an edge references a missing
// node and ErrGraphHasCycle if the graph is not acyclic.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		_, okS := d.nodes[e.From]
		_, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
	}
	return d.detectCycles()
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for id := range d.nodes {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
