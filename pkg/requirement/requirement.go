// Package requirement parses, canonicalizes and evaluates Python
// requirement specifiers (PEP 508), including environment markers.
//
// Canonical names are the identity of a distribution everywhere else in the
// module: sets, maps, exclusion lists and output all use [Canonicalize]d
// names.
package requirement

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/enorganic/requirements/pkg/errors"
)

var (
	nameRE    = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)
	specRE    = regexp.MustCompile(`^\s*(~=|===|==|!=|<=|>=|<|>)\s*[A-Za-z0-9_.*+!-]+\s*(?:,\s*(~=|===|==|!=|<=|>=|<|>)\s*[A-Za-z0-9_.*+!-]+\s*)*$`)
	pep503RE  = regexp.MustCompile(`[-_.]+`)
	unsafeRE  = regexp.MustCompile(`[^A-Za-z0-9.]+`)
	extrasSep = ","
)

// Requirement is a parsed dependency specifier.
//
// Name is always canonical (see [Canonicalize]) and is the key used for
// every set and map in the resolver. RawName keeps the spelling found in the
// input for display.
type Requirement struct {
	Name      string   // Canonical distribution name
	RawName   string   // Name as written
	Extras    []string // Canonical extras, in order of first appearance
	Specifier string   // Version clause, e.g. ">=2.0,<3" (opaque)
	URL       string   // Direct reference after "@"
	Marker    *Marker  // Environment marker after ";" (nil if none)
	Location  string   // Project directory, when resolved from a path
}

// Canonicalize returns the comparable form of a distribution name: runs of
// "-", "_" and "." collapse to "-", any other run of characters outside
// [A-Za-z0-9.] collapses to "-", and the result is lowercased.
func Canonicalize(name string) string {
	s := strings.ToLower(pep503RE.ReplaceAllString(strings.TrimSpace(name), "-"))
	return strings.ToLower(unsafeRE.ReplaceAllString(s, "-"))
}

// Parse parses a PEP 508 requirement string. It fails with a
// MALFORMED_SPECIFIER error when raw is not a valid specifier; callers that
// accept project locations should use [Normalizer] instead.
func Parse(raw string) (Requirement, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Requirement{}, errors.New(errors.ErrCodeMalformedSpecifier, "empty requirement")
	}

	name := nameRE.FindString(s)
	if name == "" {
		return Requirement{}, malformed(raw, "expected a distribution name")
	}
	req := Requirement{Name: Canonicalize(name), RawName: name}
	rest := strings.TrimLeft(s[len(name):], " \t")

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Requirement{}, malformed(raw, "unterminated extras")
		}
		extras, err := parseExtras(rest[1:end])
		if err != nil {
			return Requirement{}, malformed(raw, err.Error())
		}
		req.Extras = extras
		rest = strings.TrimLeft(rest[end+1:], " \t")
	}

	var marker string
	switch {
	case strings.HasPrefix(rest, "@"):
		rest = strings.TrimSpace(rest[1:])
		url, tail, _ := strings.Cut(rest, " ")
		if url == "" {
			return Requirement{}, malformed(raw, "empty URL")
		}
		req.URL = strings.TrimSuffix(url, ";")
		tail = strings.TrimSpace(tail)
		if strings.HasSuffix(url, ";") {
			tail = ";" + tail
		}
		if tail != "" && !strings.HasPrefix(tail, ";") {
			return Requirement{}, malformed(raw, "unexpected text after URL")
		}
		marker = strings.TrimPrefix(tail, ";")
	default:
		spec, tail, hasMarker := strings.Cut(rest, ";")
		spec = strings.TrimSpace(spec)
		if strings.HasPrefix(spec, "(") && strings.HasSuffix(spec, ")") {
			spec = strings.TrimSpace(spec[1 : len(spec)-1])
		}
		if spec != "" && !specRE.MatchString(spec) {
			return Requirement{}, malformed(raw, fmt.Sprintf("invalid version clause %q", spec))
		}
		req.Specifier = compactSpec(spec)
		if hasMarker {
			marker = tail
		}
	}

	if marker = strings.TrimSpace(marker); marker != "" {
		m, err := ParseMarker(marker)
		if err != nil {
			return Requirement{}, errors.Wrap(errors.ErrCodeMalformedSpecifier, err, "invalid requirement %q", raw)
		}
		req.Marker = m
	}
	return req, nil
}

// MustParse is like [Parse] but panics on error. Intended for tests and
// static tables.
func MustParse(raw string) Requirement {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// IsRequirement reports whether raw parses as a requirement specifier.
func IsRequirement(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// String renders the requirement in PEP 508 form using the canonical name.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, extrasSep) + "]")
	}
	switch {
	case r.URL != "":
		b.WriteString(" @ " + r.URL)
		if r.Marker != nil {
			b.WriteString(" ")
		}
	case r.Specifier != "":
		b.WriteString(r.Specifier)
	}
	if r.Marker != nil {
		b.WriteString("; " + r.Marker.String())
	}
	return b.String()
}

// Applies reports whether the requirement is active for the given extras in
// env. A requirement without a marker always applies. With a marker, it
// applies when the marker holds for at least one active extra; when no
// extras are active the marker is evaluated once with an empty extra.
func (r Requirement) Applies(env Environment, extras []string) bool {
	if r.Marker == nil {
		return true
	}
	if len(extras) == 0 {
		return r.Marker.Evaluate(env.WithExtra(""))
	}
	for _, extra := range extras {
		if r.Marker.Evaluate(env.WithExtra(extra)) {
			return true
		}
	}
	return false
}

// WithExtras returns a copy of r with extras appended (canonicalized and
// deduplicated).
func (r Requirement) WithExtras(extras ...string) Requirement {
	out := slices.Clone(r.Extras)
	for _, e := range extras {
		e = Canonicalize(e)
		if e != "" && !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	r.Extras = out
	return r
}

func parseExtras(s string) ([]string, error) {
	var extras []string
	for _, part := range strings.Split(s, extrasSep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if nameRE.FindString(part) != part {
			return nil, fmt.Errorf("invalid extra %q", part)
		}
		if e := Canonicalize(part); !slices.Contains(extras, e) {
			extras = append(extras, e)
		}
	}
	return extras, nil
}

func compactSpec(spec string) string {
	if spec == "" {
		return ""
	}
	parts := strings.Split(spec, ",")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(p), " ", "")
	}
	return strings.Join(parts, ",")
}

func malformed(raw, reason string) error {
	return errors.New(errors.ErrCodeMalformedSpecifier, "invalid requirement %q: %s", raw, reason)
}
