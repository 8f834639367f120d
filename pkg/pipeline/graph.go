package pipeline

import (
	"bytes"
	"context"

	"github.com/enorganic/requirements/pkg/dag"
	"github.com/enorganic/requirements/pkg/dag/transform"
	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/errors"
	dagio "github.com/enorganic/requirements/pkg/io"
	"github.com/enorganic/requirements/pkg/render/nodelink"
)

// Graph collects the closure of opts.Inputs and returns it as a layered
// graph. Roots are included, even project locations that Freeze would
// exclude from its output. Cycles are broken for layering and the removed
// edges are added back flagged with [dag.MetaCycle].
//
// Ordering, formatting and the result cache do not apply.
func (r *Runner) Graph(ctx context.Context, opts Options) (*dag.DAG, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Refresh {
		r.Registry.Invalidate()
	}

	specs, err := r.specifiers(opts)
	if err != nil {
		return nil, err
	}
	roots, err := r.normalize(ctx, specs, opts)
	if err != nil {
		return nil, err
	}
	col, err := r.collect(ctx, roots, opts)
	if err != nil {
		return nil, err
	}

	// root name -> project location ("" for plain specifiers)
	rootLocations := make(map[string]string, len(col.roots))
	for _, root := range col.roots {
		rootLocations[root.Name] = root.Location
	}

	g := dag.New(nil)
	for _, id := range col.ids {
		meta := dag.Metadata{}
		if dist := r.record(ctx, col.closure, id); dist != nil {
			meta[dag.MetaVersion] = dist.Version
			if dist.Display != "" && dist.Display != id {
				meta[dag.MetaDisplay] = dist.Display
			}
			if dist.Location != "" {
				meta[dag.MetaEditable] = dist.Location
			}
		}
		if location, ok := rootLocations[id]; ok {
			meta[dag.MetaRoot] = true
			if location != "" {
				meta[dag.MetaEditable] = location
			}
		}
		if err := g.AddNode(dag.Node{ID: id, Meta: meta}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "add node %s", id)
		}
	}
	for _, id := range col.ids {
		for _, to := range col.edges[id] {
			if _, ok := g.Node(to); ok && to != id {
				_ = g.AddEdge(dag.Edge{From: id, To: to})
			}
		}
	}

	back := transform.BreakCycles(g)
	transform.AssignLayers(g)
	for _, e := range back {
		_ = g.AddEdge(dag.Edge{From: e.From, To: e.To, Meta: dag.Metadata{dag.MetaCycle: true}})
	}

	opts.Logger.Info("built requirement graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cycles", len(back))
	return g, nil
}

func (r *Runner) record(ctx context.Context, c *deps.Closure, name string) *deps.Distribution {
	if d, ok := c.Records[name]; ok {
		return d
	}
	d, err := r.Registry.Resolve(ctx, name)
	if err != nil {
		return nil
	}
	return d
}

// RenderGraph renders g in format (dot, svg or json). Detailed adds
// versions to DOT and SVG node labels.
func RenderGraph(ctx context.Context, g *dag.DAG, format string, detailed bool) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := dagio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}))
	default:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})), nil
	}
}
