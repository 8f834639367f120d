// Package dag provides the directed requirement graph drawn by the graph
// command.
//
// # Overview
//
// Nodes are canonical distribution names; an edge From→To means From
// requires To. Requirement graphs of real environments contain cycles, so a
// [DAG] may hold them; [DAG.Validate] reports whether it does. The
// [transform] subpackage breaks cycles and assigns layers so that roots
// render on top and dependencies below their dependents.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "flask", Meta: dag.Metadata{dag.MetaRoot: true}})
//	g.AddNode(dag.Node{ID: "click"})
//	g.AddEdge(dag.Edge{From: "flask", To: "click"})
//
// # Metadata
//
// Nodes and edges carry [Metadata] maps. The freeze pipeline records the
// version, the published name, editable locations and root flags under the
// Meta* keys; cycle edges added back after [transform.BreakCycles] carry
// [MetaCycle].
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// [transform]: github.com/enorganic/requirements/pkg/dag/transform
// [transform.BreakCycles]: github.com/enorganic/requirements/pkg/dag/transform.BreakCycles
package dag
