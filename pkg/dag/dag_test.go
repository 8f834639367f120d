package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestDAG_AddNode(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) again = %v, want ErrDuplicateNodeID", err)
	}
	n, ok := g.Node("a")
	if !ok || n.Meta == nil {
		t.Errorf("Node(a) = %v, %v; want initialized metadata", n, ok)
	}
}

func TestDAG_AddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"valid", Edge{From: "a", To: "b"}, nil},
		{"repeated edge ignored", Edge{From: "a", To: "b"}, nil},
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestDAG_RemoveEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	g.RemoveEdge("a", "b")
	g.RemoveEdge("a", "missing")

	if g.EdgeCount() != 0 || len(g.Children("a")) != 0 || len(g.Parents("b")) != 0 {
		t.Errorf("edge a→b still present: edges=%v", g.Edges())
	}
}

func TestDAG_NodesSorted(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"zope", "attrs", "mypy"} {
		_ = g.AddNode(Node{ID: id})
	}
	if got, want := NodeIDs(g.Nodes()), []string{"attrs", "mypy", "zope"}; !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
}

func TestDAG_Rows(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddNode(Node{ID: "c"})
	g.SetRows(map[string]int{"b": 1, "c": 2, "ghost": 5})

	if got := g.RowIDs(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("RowIDs() = %v, want [0 1 2]", got)
	}
	if got := g.MaxRow(); got != 2 {
		t.Errorf("MaxRow() = %d, want 2", got)
	}
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"b"}) {
		t.Errorf("NodesInRow(1) = %v, want [b]", got)
	}
	if New(nil).MaxRow() != 0 {
		t.Error("MaxRow() of empty graph should be 0")
	}
}

func TestDAG_Validate(t *testing.T) {
	acyclic := New(nil)
	_ = acyclic.AddNode(Node{ID: "a"})
	_ = acyclic.AddNode(Node{ID: "b"})
	_ = acyclic.AddEdge(Edge{From: "a", To: "b"})
	if err := acyclic.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	_ = acyclic.AddEdge(Edge{From: "b", To: "a"})
	if err := acyclic.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}
}

func TestEdge_IsCycle(t *testing.T) {
	if (Edge{}).IsCycle() {
		t.Error("zero Edge should not be a cycle edge")
	}
	if !(Edge{Meta: Metadata{MetaCycle: true}}).IsCycle() {
		t.Error("edge with MetaCycle should be a cycle edge")
	}
}
