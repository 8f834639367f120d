package deps

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gobwas/glob"

	"github.com/enorganic/requirements/pkg/errors"
)

// Formatter renders names as pinned requirement lines.
type Formatter struct {
	reg       Registry
	patterns  []glob.Glob
	neverPin  mapset.Set[string]
	attempted mapset.Set[string]
}

// NewFormatter compiles the no-version glob patterns (fnmatch style:
// "*", "?", "[...]"). Names matching a pattern, and the [NeverPin] names,
// are emitted without a version.
func NewFormatter(reg Registry, noVersion []string) (*Formatter, error) {
	f := &Formatter{
		reg:       reg,
		neverPin:  mapset.NewThreadUnsafeSet(NeverPin...),
		attempted: mapset.NewThreadUnsafeSet[string](),
	}
	for _, p := range noVersion {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid no-version pattern %q", p)
		}
		f.patterns = append(f.patterns, g)
	}
	return f, nil
}

// Unpinned reports whether name is emitted without a version.
func (f *Formatter) Unpinned(name string) bool {
	if f.neverPin.Contains(name) {
		return true
	}
	for _, g := range f.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Line renders one canonical name as "name" or "name==version".
func (f *Formatter) Line(ctx context.Context, name string) (string, error) {
	if f.Unpinned(name) {
		return name, nil
	}
	dist, err := f.reg.Resolve(ctx, name)
	if err != nil {
		if !IsNotFound(err) || !f.attempted.Add(name) {
			return "", unresolved(name, err)
		}
		_, installErr := f.reg.EnsureAvailable(ctx, name)
		if dist, err = f.reg.Resolve(ctx, name); err != nil {
			if installErr != nil {
				err = installErr
			}
			return "", unresolved(name, err)
		}
	}
	return name + "==" + dist.Version, nil
}

// Format renders every name in order.
func (f *Formatter) Format(ctx context.Context, names []string) ([]string, error) {
	lines := make([]string, 0, len(names))
	for _, n := range names {
		line, err := f.Line(ctx, n)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func unresolved(name string, cause error) error {
	if !IsNotFound(cause) && errors.GetCode(cause) != errors.ErrCodeInstallFailed {
		return cause
	}
	return &errors.UnresolvedDependencyError{Name: name, Path: []string{name}, Cause: cause}
}
