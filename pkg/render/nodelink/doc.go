// Package nodelink renders requirement graphs as node-link diagrams.
//
// Convert a graph to DOT source, then optionally render it to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The generated DOT uses a top-to-bottom layout (rankdir=TB) with rounded
// box nodes. Cycle edges are dashed and do not constrain the ranking.
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no external binaries are required.
package nodelink
