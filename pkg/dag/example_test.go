package dag_test

import (
	"fmt"

	"github.com/enorganic/requirements/pkg/dag"
)

func ExampleDAG_basic() {
	// flask → werkzeug → markupsafe
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "flask"})
	_ = g.AddNode(dag.Node{ID: "werkzeug"})
	_ = g.AddNode(dag.Node{ID: "markupsafe"})
	_ = g.AddEdge(dag.Edge{From: "flask", To: "werkzeug"})
	_ = g.AddEdge(dag.Edge{From: "werkzeug", To: "markupsafe"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Sources:", dag.NodeIDs(g.Sources()))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Sources: [flask]
}

func ExampleDAG_traversal() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "flask"})
	_ = g.AddNode(dag.Node{ID: "click"})
	_ = g.AddNode(dag.Node{ID: "jinja2"})
	_ = g.AddEdge(dag.Edge{From: "flask", To: "jinja2"})
	_ = g.AddEdge(dag.Edge{From: "flask", To: "click"})

	fmt.Println("Children of flask:", g.Children("flask"))
	fmt.Println("Parents of click:", g.Parents("click"))
	fmt.Println("Sinks:", dag.NodeIDs(g.Sinks()))
	// Output:
	// Children of flask: [jinja2 click]
	// Parents of click: [flask]
	// Sinks: [click jinja2]
}

func ExampleDAG_metadata() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{
		ID: "requests",
		Meta: dag.Metadata{
			dag.MetaVersion: "2.31.0",
			dag.MetaRoot:    true,
		},
	})

	node, _ := g.Node("requests")
	fmt.Println("Version:", node.Version())
	fmt.Println("Root:", node.IsRoot())
	// Output:
	// Version: 2.31.0
	// Root: true
}
