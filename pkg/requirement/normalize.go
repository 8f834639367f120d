package requirement

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/enorganic/requirements/pkg/errors"
)

// Locator resolves the project name declared by local project metadata in
// a directory (setup.cfg, pyproject.toml, setup.py).
type Locator interface {
	ProjectName(ctx context.Context, dir string) (string, error)
}

// LocatorFunc adapts a function to the [Locator] interface.
type LocatorFunc func(ctx context.Context, dir string) (string, error)

// ProjectName implements [Locator].
func (f LocatorFunc) ProjectName(ctx context.Context, dir string) (string, error) {
	return f(ctx, dir)
}

// Normalizer turns raw specifiers into requirements. Strings that are not
// valid specifiers are treated as project locations and resolved through
// Locator.
type Normalizer struct {
	Locator Locator
	Dir     string // Base directory for relative locations (default: cwd)
}

// Normalize parses raw as a specifier or, failing that, as a project
// location with an optional trailing "[extras]" suffix. It fails with
// MALFORMED_SPECIFIER when neither works.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (Requirement, error) {
	req, parseErr := Parse(raw)
	if parseErr == nil {
		return req, nil
	}

	location, extras := splitLocationExtras(strings.TrimSpace(raw))
	if location == "" || n == nil || n.Locator == nil {
		return Requirement{}, parseErr
	}
	dir, err := n.resolveDir(location)
	if err != nil {
		return Requirement{}, errors.Wrap(errors.ErrCodeMalformedSpecifier, err,
			"%q is neither a requirement nor a project location", raw)
	}

	name, err := n.Locator.ProjectName(ctx, dir)
	if err != nil {
		return Requirement{}, errors.Wrap(errors.ErrCodeMalformedSpecifier, err,
			"no project name found at %s", dir)
	}
	if strings.TrimSpace(name) == "" {
		return Requirement{}, errors.New(errors.ErrCodeMalformedSpecifier, "no project name found at %s", dir)
	}

	req = Requirement{Name: Canonicalize(name), RawName: strings.TrimSpace(name), Location: dir}
	if extras != "" {
		parsed, err := parseExtras(extras)
		if err != nil {
			return Requirement{}, malformed(raw, err.Error())
		}
		req.Extras = parsed
	}
	return req, nil
}

// NormalizeAll normalizes every raw specifier, stopping at the first error.
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []string) ([]Requirement, error) {
	out := make([]Requirement, 0, len(raws))
	for _, raw := range raws {
		req, err := n.Normalize(ctx, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func (n *Normalizer) resolveDir(location string) (string, error) {
	if strings.HasPrefix(location, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			location = filepath.Join(home, strings.TrimPrefix(location, "~"))
		}
	}
	if !filepath.IsAbs(location) && n.Dir != "" {
		location = filepath.Join(n.Dir, location)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}

// splitLocationExtras splits "path/to/project[a,b]" into the path and the
// extras text.
func splitLocationExtras(s string) (string, string) {
	if !strings.HasSuffix(s, "]") {
		return s, ""
	}
	i := strings.LastIndexByte(s, '[')
	if i < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), s[i+1 : len(s)-1]
}
