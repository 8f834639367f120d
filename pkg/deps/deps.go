package deps

import (
	"context"
	"fmt"

	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/requirement"
)

// Unbounded disables the depth limit of [Collect].
const Unbounded = -1

// Builtin distributions that are never expanded or emitted.
var builtins = []string{"distribute"}

// NeverPin lists distributions that are always emitted without a version.
var NeverPin = []string{"importlib-metadata", "importlib-resources"}

// ErrNotFound signals that a registry has no record for a name. Registries
// may wrap it; match with errors.Is or [IsNotFound].
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "distribution not found")

// IsNotFound reports whether err signals an absent distribution.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeNotFound)
}

// NotFound returns an error wrapping [ErrNotFound] for the given name.
func NotFound(name string) error {
	return fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Registry answers "what is installed under this name and what does it
// require". Resolve is read-only; EnsureAvailable may install and is only
// called after Resolve reported absence.
type Registry interface {
	// Resolve returns the record for a canonical name, or an error matching
	// ErrNotFound.
	Resolve(ctx context.Context, name string) (*Distribution, error)
	// EnsureAvailable attempts to make name resolvable (for example by
	// installing it) and returns its record.
	EnsureAvailable(ctx context.Context, name string) (*Distribution, error)
	// Invalidate drops any cached lookups.
	Invalidate()
}

// Distribution is a registry record for one distribution.
type Distribution struct {
	Name     string                  `json:"name"`               // Canonical name
	Display  string                  `json:"display_name"`       // Name as published
	Version  string                  `json:"version"`            // Installed or latest version
	Requires []string                `json:"requires"`           // Raw requirement strings (may carry markers)
	Env      requirement.Environment `json:"-"`                  // Marker environment (default if nil)
	Location string                  `json:"location,omitempty"` // Editable project directory
}

// Requirements returns the direct requirements that apply for the given
// active extras, in declaration order.
func (d *Distribution) Requirements(extras []string) ([]requirement.Requirement, error) {
	env := d.Env
	if env == nil {
		env = requirement.DefaultEnvironment()
	}
	var out []requirement.Requirement
	for _, raw := range d.Requires {
		req, err := requirement.Parse(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedSpecifier, err, "requirement of %s", d.Name)
		}
		// With no active extras, markers are still evaluated (extra == "")
		// so platform and python_version markers keep their dependencies.
		if req.Applies(env, extras) {
			out = append(out, req)
		}
	}
	return out, nil
}

// Editable reports whether the distribution is installed from a project
// directory in development mode.
func (d *Distribution) Editable() bool { return d.Location != "" }

// Options configures [Collect].
type Options struct {
	Exclude          []string             // Removed from output; requirements still discovered
	ExcludeRecursive []string             // Never expanded nor emitted
	MaxDepth         int                  // Unbounded, or levels below the roots to expand (0: direct only)
	Logger           func(string, ...any) // Progress callback (optional)
}

// WithDefaults returns a copy of Options with builtin exclusions added and
// a no-op logger in place of nil.
func (o Options) WithDefaults() Options {
	opts := o
	opts.ExcludeRecursive = append(append([]string(nil), o.ExcludeRecursive...), builtins...)
	if opts.MaxDepth < Unbounded {
		opts.MaxDepth = Unbounded
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
