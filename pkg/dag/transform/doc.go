// Package transform prepares a requirement graph for layered drawing.
//
// [BreakCycles] removes the back edges found by a depth-first search from
// the sources, and returns them so a renderer can add them back as cycle
// edges. [AssignLayers] then places every node one row below its deepest
// dependent, which puts requested distributions on top and shared
// low-level libraries at the bottom.
package transform
