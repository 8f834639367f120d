package transform

import "testing"

func TestAssignLayers(t *testing.T) {
	// app requires requests and urllib3; requests requires urllib3 and idna
	g := build(t,
		[]string{"app", "requests", "urllib3", "idna"},
		[][2]string{{"app", "requests"}, {"app", "urllib3"}, {"requests", "urllib3"}, {"requests", "idna"}},
	)
	AssignLayers(g)

	want := map[string]int{"app": 0, "requests": 1, "urllib3": 2, "idna": 2}
	for id, row := range want {
		n, _ := g.Node(id)
		if n.Row != row {
			t.Errorf("%s row = %d, want %d", id, n.Row, row)
		}
	}
}

func TestAssignLayers_AfterBreakCycles(t *testing.T) {
	g := build(t, []string{"x", "y"}, [][2]string{{"x", "y"}, {"y", "x"}})
	BreakCycles(g)
	AssignLayers(g)

	x, _ := g.Node("x")
	y, _ := g.Node("y")
	if x.Row != 0 || y.Row != 1 {
		t.Errorf("rows = x:%d y:%d, want x:0 y:1", x.Row, y.Row)
	}
}
