package deps

import (
	"context"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/observability"
	"github.com/enorganic/requirements/pkg/requirement"
)

// Closure is the result of [Collect].
type Closure struct {
	// Names holds every transitively required canonical name in first-seen
	// order, with shallow exclusions removed. Roots appear only when some
	// other expanded distribution requires them.
	Names []string
	// Edges maps each expanded name to its marker-filtered direct
	// requirements, recorded before visited-set pruning.
	Edges map[string][]string
	// Records holds every distribution read during the traversal.
	Records map[string]*Distribution
}

// EdgesOf returns the direct requirement names recorded for name.
func (c *Closure) EdgesOf(name string) []string {
	return c.Edges[name]
}

// Contains reports whether name is part of the closure output.
func (c *Closure) Contains(name string) bool {
	return slices.Contains(c.Names, name)
}

// Collect walks the requirements of roots through reg and returns the
// deduplicated set of distributions they transitively require.
//
// A name in opts.ExcludeRecursive is never expanded and never emitted.
// A name in opts.Exclude is removed from the output after the walk, but its
// own requirements are still discovered. A missing distribution triggers
// one EnsureAvailable call and one retry; if it is still missing the walk
// fails with an [errors.UnresolvedDependencyError] naming the path from the
// root.
func Collect(ctx context.Context, reg Registry, roots []requirement.Requirement, opts Options) (*Closure, error) {
	opts = opts.WithDefaults()
	start := time.Now()
	observability.Freeze().OnCollectStart(ctx, len(roots))

	c := &collector{
		ctx:       ctx,
		reg:       reg,
		opts:      opts,
		visited:   mapset.NewThreadUnsafeSet[string](),
		recursive: canonicalSet(opts.ExcludeRecursive),
		attempted: mapset.NewThreadUnsafeSet[string](),
		seen:      mapset.NewThreadUnsafeSet[string](),
		closure: &Closure{
			Edges:   make(map[string][]string),
			Records: make(map[string]*Distribution),
		},
	}

	for _, root := range roots {
		if err := c.expand(root.Name, root.Extras, opts.MaxDepth, nil); err != nil {
			observability.Freeze().OnCollectComplete(ctx, 0, time.Since(start), err)
			return nil, err
		}
	}

	shallow := canonicalSet(opts.Exclude)
	c.closure.Names = slices.DeleteFunc(c.closure.Names, func(n string) bool { return shallow.Contains(n) })

	observability.Freeze().OnCollectComplete(ctx, len(c.closure.Names), time.Since(start), nil)
	return c.closure, nil
}

type collector struct {
	ctx  context.Context
	reg  Registry
	opts Options

	visited   mapset.Set[string] // expanded names
	recursive mapset.Set[string] // never expanded nor emitted
	attempted mapset.Set[string] // names passed to EnsureAvailable
	seen      mapset.Set[string] // names already in closure.Names

	closure *Closure
}

func (c *collector) expand(name string, extras []string, depth int, path []string) error {
	if c.recursive.Contains(name) || c.visited.Contains(name) {
		return nil
	}
	if err := c.ctx.Err(); err != nil {
		return err
	}
	c.visited.Add(name)
	path = append(slices.Clone(path), name)

	dist, err := c.lookup(name, path)
	if err != nil {
		return err
	}
	reqs, err := dist.Requirements(extras)
	if err != nil {
		return err
	}

	edges := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if r.Name != name && !slices.Contains(edges, r.Name) {
			edges = append(edges, r.Name)
		}
	}
	c.closure.Edges[name] = edges

	next := c.filter(reqs)
	for _, r := range next {
		c.emit(r.Name)
	}
	if depth == 0 {
		return nil
	}
	if depth > 0 {
		depth--
	}
	for _, r := range next {
		if err := c.expand(r.Name, r.Extras, depth, path); err != nil {
			return err
		}
	}
	return nil
}

// filter drops requirements that are visited or recursively excluded and
// merges the extras of repeated names.
func (c *collector) filter(reqs []requirement.Requirement) []requirement.Requirement {
	var out []requirement.Requirement
	index := make(map[string]int)
	for _, r := range reqs {
		if c.visited.Contains(r.Name) || c.recursive.Contains(r.Name) {
			continue
		}
		if i, ok := index[r.Name]; ok {
			out[i] = out[i].WithExtras(r.Extras...)
			continue
		}
		index[r.Name] = len(out)
		out = append(out, r)
	}
	return out
}

func (c *collector) emit(name string) {
	if c.seen.Add(name) {
		c.closure.Names = append(c.closure.Names, name)
	}
}

func (c *collector) lookup(name string, path []string) (*Distribution, error) {
	dist, err := c.reg.Resolve(c.ctx, name)
	if err == nil {
		c.closure.Records[name] = dist
		return dist, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	if !c.attempted.Add(name) {
		return nil, &errors.UnresolvedDependencyError{Name: name, Path: path, Cause: err}
	}

	c.opts.Logger("installing %s", name)
	start := time.Now()
	observability.Freeze().OnInstallStart(c.ctx, name)
	_, installErr := c.reg.EnsureAvailable(c.ctx, name)
	observability.Freeze().OnInstallComplete(c.ctx, name, time.Since(start), installErr)
	if installErr != nil && c.ctx.Err() != nil {
		return nil, c.ctx.Err()
	}

	dist, err = c.reg.Resolve(c.ctx, name)
	if err != nil {
		if installErr == nil {
			installErr = err
		}
		return nil, &errors.UnresolvedDependencyError{Name: name, Path: path, Cause: installErr}
	}
	c.closure.Records[name] = dist
	return dist, nil
}

func canonicalSet(names []string) mapset.Set[string] {
	s := mapset.NewThreadUnsafeSet[string]()
	for _, n := range names {
		if n = requirement.Canonicalize(n); n != "" {
			s.Add(n)
		}
	}
	return s
}
