package transform

import (
	"testing"

	"github.com/enorganic/requirements/pkg/dag"
)

func build(t *testing.T, nodes []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, id := range nodes {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []string
		edges     [][2]string
		wantBack  [][2]string
		wantEdges int
	}{
		{
			name:      "no cycles",
			nodes:     []string{"a", "b", "c"},
			edges:     [][2]string{{"a", "b"}, {"b", "c"}},
			wantEdges: 2,
		},
		{
			name:      "two-cycle",
			nodes:     []string{"a", "b"},
			edges:     [][2]string{{"a", "b"}, {"b", "a"}},
			wantBack:  [][2]string{{"b", "a"}},
			wantEdges: 1,
		},
		{
			name:      "triangle",
			nodes:     []string{"a", "b", "c"},
			edges:     [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			wantBack:  [][2]string{{"c", "a"}},
			wantEdges: 2,
		},
		{
			name:      "two separate cycles",
			nodes:     []string{"a", "b", "c", "d"},
			edges:     [][2]string{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}},
			wantBack:  [][2]string{{"b", "a"}, {"d", "c"}},
			wantEdges: 2,
		},
		{
			name:      "self loop",
			nodes:     []string{"a"},
			edges:     [][2]string{{"a", "a"}},
			wantBack:  [][2]string{{"a", "a"}},
			wantEdges: 0,
		},
		{
			name:      "diamond",
			nodes:     []string{"a", "b", "c", "d"},
			edges:     [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			wantEdges: 4,
		},
		{
			name:      "cycle below a source",
			nodes:     []string{"app", "sphinx", "sphinxcontrib"},
			edges:     [][2]string{{"app", "sphinx"}, {"sphinx", "sphinxcontrib"}, {"sphinxcontrib", "sphinx"}},
			wantBack:  [][2]string{{"sphinxcontrib", "sphinx"}},
			wantEdges: 2,
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.nodes, tt.edges)
			back := BreakCycles(g)

			if len(back) != len(tt.wantBack) {
				t.Fatalf("BreakCycles() = %v, want %v", back, tt.wantBack)
			}
			for i, e := range back {
				if e.From != tt.wantBack[i][0] || e.To != tt.wantBack[i][1] {
					t.Errorf("back edge %d = %s→%s, want %s→%s", i, e.From, e.To, tt.wantBack[i][0], tt.wantBack[i][1])
				}
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() after BreakCycles = %v", err)
			}
		})
	}
}

func TestBreakCycles_Idempotent(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}})
	BreakCycles(g)
	if back := BreakCycles(g); len(back) != 0 {
		t.Errorf("second BreakCycles() removed %v", back)
	}
}
