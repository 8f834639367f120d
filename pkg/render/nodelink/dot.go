package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/enorganic/requirements/pkg/dag"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the version and the editable location to node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a requirement graph to Graphviz DOT source. Nodes are
// emitted sorted by ID and edges in insertion order, so equal graphs give
// byte-identical output.
//
// Requested distributions are drawn bold, editable installs with a light
// blue fill, and cycle edges dashed. When the graph has been layered, the
// nodes of each row share a rank.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(*n, opts.Detailed)
		attrs := fmtAttrs(*n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if g.MaxRow() > 0 {
		buf.WriteString("\n")
		for _, row := range g.RowIDs() {
			ids := dag.NodeIDs(g.NodesInRow(row))
			for i, id := range ids {
				ids[i] = strconv.Quote(id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.IsCycle() {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, constraint=false];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{n.ID}
	if v := n.Version(); v != "" {
		parts = append(parts, v)
	}
	if loc, ok := n.Meta[dag.MetaEditable].(string); ok && loc != "" {
		parts = append(parts, "editable: "+loc)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsRoot() {
		attrs = append(attrs, "penwidth=2", "style=\"rounded,filled,bold\"")
	}
	if loc, ok := n.Meta[dag.MetaEditable].(string); ok && loc != "" {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
