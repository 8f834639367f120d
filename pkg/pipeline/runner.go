package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/enorganic/requirements/pkg/cache"
	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/requirement"
)

// Runner executes freezes against one registry.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// freezes as long as its Registry is safe for concurrent use.
type Runner struct {
	Registry     deps.Registry
	RegistryName string                  // Part of result cache keys
	Environment  requirement.Environment // Part of result cache keys

	// Locator resolves project locations. When nil, inputs that are not
	// valid specifiers fail with MALFORMED_SPECIFIER.
	Locator requirement.Locator
	// Sources recognize requirement files among the inputs. When empty,
	// every input is treated as a specifier.
	Sources []deps.Source

	Cache     cache.Cache
	Keyer     cache.Keyer
	ResultTTL time.Duration // Zero disables result caching
	Logger    *log.Logger
}

// NewRunner creates a runner for reg.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(reg deps.Registry, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: reg,
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
	}
}

// Freeze computes the pinned requirement lines for opts.Inputs.
func (r *Runner) Freeze(ctx context.Context, opts Options) (*Result, error) {
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
	formatter, err := deps.NewFormatter(r.Registry, opts.NoVersion)
	if err != nil {
		return nil, err
	}

	roots, err := r.normalize(ctx, specs, opts)
	if err != nil {
		return nil, err
	}

	var key string
	if r.ResultTTL > 0 {
		key = r.Keyer.FreezeKey(r.keyOpts(roots, opts))
		if !opts.Refresh {
			if res, ok := r.cached(ctx, key); ok {
				opts.Logger.Debug("freeze result from cache", "names", len(res.Names))
				return res, nil
			}
		}
	}

	collectStart := time.Now()
	col, err := r.collect(ctx, roots, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Closure: col.closure}
	result.Stats.Roots = len(col.roots)
	result.Stats.CollectTime = time.Since(collectStart)

	opts.Logger.Info("collected requirements",
		"roots", len(col.roots),
		"names", len(col.names),
		"duration", result.Stats.CollectTime)

	formatStart := time.Now()
	result.Names = deps.Order(col.names, col.edgesOf, opts.mode, opts.Reverse)
	result.Lines, err = formatter.Format(ctx, result.Names)
	if err != nil {
		return nil, err
	}
	result.Stats.Names = len(result.Names)
	result.Stats.FormatTime = time.Since(formatStart)

	opts.Logger.Debug("formatted requirements",
		"order", opts.Order,
		"reverse", opts.Reverse,
		"duration", result.Stats.FormatTime)

	if key != "" {
		if data, err := json.Marshal(result); err == nil {
			_ = r.Cache.Set(ctx, key, data, r.ResultTTL)
		}
	}
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// collection is the outcome of stages 1 to 3.
type collection struct {
	roots   []requirement.Requirement
	closure *deps.Closure

	// names are the output names before ordering: roots first, then the
	// closure, without exclusions.
	names []string

	// ids are names plus shallow-excluded roots, the graph node set.
	ids []string

	// edges are the direct requirements of every id, for the graph.
	edges map[string][]string

	// orderEdges map each output name to the output names it requires,
	// looking through names left out of the output.
	orderEdges map[string][]string
}

func (c *collection) edgesOf(name string) []string { return c.orderEdges[name] }

func (r *Runner) normalize(ctx context.Context, specs []string, opts Options) ([]requirement.Requirement, error) {
	normalizer := &requirement.Normalizer{Locator: r.Locator, Dir: opts.Dir}
	return normalizer.NormalizeAll(ctx, specs)
}

func (r *Runner) collect(ctx context.Context, roots []requirement.Requirement, opts Options) (*collection, error) {
	shallow := canonicalSet(opts.Exclude)
	for _, root := range roots {
		if root.Location != "" {
			shallow.Add(root.Name)
		}
	}

	dopts := deps.Options{
		Exclude:          shallow.ToSlice(),
		ExcludeRecursive: opts.ExcludeRecursive,
		MaxDepth:         opts.MaxDepth,
		Logger: func(format string, args ...any) {
			opts.Logger.Infof(format, args...)
		},
	}.WithDefaults()
	recursive := canonicalSet(dopts.ExcludeRecursive)

	closure, err := deps.Collect(ctx, r.Registry, roots, dopts)
	if err != nil {
		return nil, err
	}

	col := &collection{
		roots:   roots,
		closure: closure,
		edges:   make(map[string][]string),
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, root := range roots {
		if recursive.Contains(root.Name) || !seen.Add(root.Name) {
			continue
		}
		col.ids = append(col.ids, root.Name)
		if !shallow.Contains(root.Name) {
			col.names = append(col.names, root.Name)
		}
	}
	for _, name := range closure.Names {
		if seen.Add(name) {
			col.ids = append(col.ids, name)
			col.names = append(col.names, name)
		}
	}

	for _, name := range col.ids {
		if e, ok := closure.Edges[name]; ok {
			col.edges[name] = e
			continue
		}
		col.edges[name] = r.resolveEdges(ctx, name)
	}
	r.flattenEdges(ctx, col)
	return col, nil
}

// flattenEdges fills col.orderEdges. An edge to a name outside the output
// (shallow-excluded, recursively excluded or beyond the depth limit) is
// replaced by that name's own requirements, transitively, so that
// dependencies reached only through it still order first.
func (r *Runner) flattenEdges(ctx context.Context, col *collection) {
	output := mapset.NewThreadUnsafeSet(col.names...)
	col.orderEdges = make(map[string][]string, len(col.names))

	for _, name := range col.names {
		seen := mapset.NewThreadUnsafeSet(name)
		var flat []string
		var walk func(targets []string)
		walk = func(targets []string) {
			for _, to := range targets {
				if !seen.Add(to) {
					continue
				}
				if output.Contains(to) {
					flat = append(flat, to)
					continue
				}
				walk(r.edgesFor(ctx, col, to))
			}
		}
		walk(col.edges[name])
		col.orderEdges[name] = flat
	}
}

func (r *Runner) edgesFor(ctx context.Context, col *collection, name string) []string {
	if e, ok := col.edges[name]; ok {
		return e
	}
	e, ok := col.closure.Edges[name]
	if !ok {
		e = r.resolveEdges(ctx, name)
	}
	col.edges[name] = e
	return e
}

// resolveEdges reads the direct requirements of a name the collector did
// not expand. Absent or unreadable records have no edges.
func (r *Runner) resolveEdges(ctx context.Context, name string) []string {
	dist, err := r.Registry.Resolve(ctx, name)
	if err != nil {
		return nil
	}
	reqs, err := dist.Requirements(nil)
	if err != nil {
		return nil
	}
	var out []string
	for _, req := range reqs {
		out = append(out, req.Name)
	}
	return out
}

// specifiers splits the inputs into requirement files and specifiers and
// returns the specifiers followed by the file contents, deduplicated.
func (r *Runner) specifiers(opts Options) ([]string, error) {
	var direct, files []string
	for _, in := range opts.Inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		if len(r.Sources) > 0 {
			path := in
			if !filepath.IsAbs(path) && opts.Dir != "" {
				path = filepath.Join(opts.Dir, path)
			}
			if deps.IsSourceFile(path, r.Sources...) {
				files = append(files, path)
				continue
			}
		}
		direct = append(direct, in)
	}

	fromFiles, err := deps.ReadSpecifiers(files, r.Sources...)
	if err != nil {
		return nil, err
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	for _, s := range append(direct, fromFiles...) {
		if seen.Add(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// keyOpts builds the result cache key inputs from the normalized roots.
// Project locations enter the key by absolute directory, so "." in two
// projects never shares an entry.
func (r *Runner) keyOpts(roots []requirement.Requirement, opts Options) cache.FreezeKeyOpts {
	reqs := make([]string, len(roots))
	for i, root := range roots {
		reqs[i] = root.String()
		if root.Location != "" {
			reqs[i] += " @ " + root.Location
		}
	}

	var env string
	if r.Environment != nil {
		data, _ := json.Marshal(r.Environment)
		env = cache.Hash(data)
	}
	return cache.FreezeKeyOpts{
		Registry:         r.RegistryName,
		Requirements:     reqs,
		Exclude:          opts.Exclude,
		ExcludeRecursive: opts.ExcludeRecursive,
		NoVersion:        opts.NoVersion,
		MaxDepth:         opts.MaxDepth,
		Order:            opts.mode.String(),
		Reverse:          opts.Reverse,
		Environment:      env,
	}
}

func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false
	}
	res.Stats.Names = len(res.Names)
	res.CacheInfo.Hit = true
	return &res, true
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
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
