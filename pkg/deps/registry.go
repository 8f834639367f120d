package deps

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/requirement"
)

// MemoryRegistry is an in-memory [Registry]. Distributions added with
// AddInstallable become resolvable only after EnsureAvailable is called for
// them, which makes it usable as a fake for install-on-demand flows.
type MemoryRegistry struct {
	// Install, if set, runs on every EnsureAvailable call before the
	// installable distributions are consulted.
	Install func(ctx context.Context, name string) error

	mu          sync.Mutex
	dists       map[string]*Distribution
	installable map[string]*Distribution
	installs    map[string]int
}

// NewMemoryRegistry returns a registry holding dists.
func NewMemoryRegistry(dists ...*Distribution) *MemoryRegistry {
	r := &MemoryRegistry{
		dists:       make(map[string]*Distribution),
		installable: make(map[string]*Distribution),
		installs:    make(map[string]int),
	}
	for _, d := range dists {
		r.Add(d)
	}
	return r
}

// NewDistribution builds a record with a canonical name.
func NewDistribution(name, version string, requires ...string) *Distribution {
	return &Distribution{
		Name:     requirement.Canonicalize(name),
		Display:  name,
		Version:  version,
		Requires: requires,
	}
}

// Add makes d resolvable.
func (r *MemoryRegistry) Add(d *Distribution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dists[canonical(d)] = d
}

// AddInstallable registers d to become resolvable after EnsureAvailable.
func (r *MemoryRegistry) AddInstallable(d *Distribution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.installable[canonical(d)] = d
}

// Resolve implements [Registry].
func (r *MemoryRegistry) Resolve(_ context.Context, name string) (*Distribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dists[requirement.Canonicalize(name)]; ok {
		return d, nil
	}
	return nil, NotFound(name)
}

// EnsureAvailable implements [Registry].
func (r *MemoryRegistry) EnsureAvailable(ctx context.Context, name string) (*Distribution, error) {
	name = requirement.Canonicalize(name)
	r.mu.Lock()
	r.installs[name]++
	install := r.Install
	r.mu.Unlock()

	if install != nil {
		if err := install(ctx, name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInstallFailed, err, "install %s", name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.installable[name]; ok {
		delete(r.installable, name)
		r.dists[name] = d
	}
	if d, ok := r.dists[name]; ok {
		return d, nil
	}
	return nil, errors.Wrap(errors.ErrCodeInstallFailed, NotFound(name), "install %s", name)
}

// Invalidate implements [Registry]. The memory registry has no cache.
func (r *MemoryRegistry) Invalidate() {}

// Installs returns how many times EnsureAvailable was called for name.
func (r *MemoryRegistry) Installs(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.installs[requirement.Canonicalize(name)]
}

// Names returns the resolvable names, sorted.
func (r *MemoryRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.dists))
}

func canonical(d *Distribution) string {
	d.Name = requirement.Canonicalize(d.Name)
	if d.Display == "" {
		d.Display = d.Name
	}
	return d.Name
}
