package python

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/integrations"
	"github.com/enorganic/requirements/pkg/integrations/pypi"
	"github.com/enorganic/requirements/pkg/requirement"
)

// PyPIRegistry is a [deps.Registry] over the latest releases published on
// the package index. It never installs anything: EnsureAvailable only
// refetches the project, bypassing the response cache.
//
// A PyPIRegistry is safe for concurrent use.
type PyPIRegistry struct {
	client *pypi.Client
	env    requirement.Environment

	mu      sync.Mutex
	memo    map[string]*deps.Distribution
	refresh bool
}

// NewPyPIRegistry returns a registry evaluating markers against env (the
// default environment if nil).
func NewPyPIRegistry(client *pypi.Client, env requirement.Environment) *PyPIRegistry {
	if env == nil {
		env = requirement.DefaultEnvironment()
	}
	return &PyPIRegistry{client: client, env: env, memo: make(map[string]*deps.Distribution)}
}

// Resolve implements [deps.Registry].
func (r *PyPIRegistry) Resolve(ctx context.Context, name string) (*deps.Distribution, error) {
	name = requirement.Canonicalize(name)
	r.mu.Lock()
	d, ok := r.memo[name]
	refresh := r.refresh
	r.mu.Unlock()
	if ok {
		return d, nil
	}
	return r.fetch(ctx, name, refresh)
}

// EnsureAvailable implements [deps.Registry].
func (r *PyPIRegistry) EnsureAvailable(ctx context.Context, name string) (*deps.Distribution, error) {
	d, err := r.fetch(ctx, requirement.Canonicalize(name), true)
	if deps.IsNotFound(err) {
		return nil, errors.Wrap(errors.ErrCodeInstallFailed, err, "%s is not published on the package index", name)
	}
	return d, err
}

// Invalidate implements [deps.Registry]. Later lookups bypass the response
// cache.
func (r *PyPIRegistry) Invalidate() {
	r.mu.Lock()
	r.memo = make(map[string]*deps.Distribution)
	r.refresh = true
	r.mu.Unlock()
}

func (r *PyPIRegistry) fetch(ctx context.Context, name string, refresh bool) (*deps.Distribution, error) {
	info, err := r.client.FetchPackage(ctx, name, refresh)
	if err != nil {
		if stderrors.Is(err, integrations.ErrNotFound) {
			return nil, deps.NotFound(name)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", name)
	}

	d := &deps.Distribution{
		Name:     requirement.Canonicalize(info.Name),
		Display:  info.Name,
		Version:  info.Version,
		Requires: info.RequiresDist,
		Env:      r.env,
	}
	if d.Name == "" {
		d.Name = name
	}
	r.mu.Lock()
	r.memo[name] = d
	r.mu.Unlock()
	return d, nil
}
