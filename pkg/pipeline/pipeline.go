// Package pipeline runs a complete freeze: it turns requirement specifiers
// and requirement files into ordered, pinned requirement lines.
//
// The CLI and the HTTP server share this package so that both apply the
// same input splitting, exclusion, ordering and caching rules.
//
// # Stages
//
//  1. Inputs that name an existing requirement file are read with the
//     runner's sources; everything else is a specifier.
//  2. Specifiers are normalized. Project locations (".", "../lib[test]")
//     resolve to their project name and are shallow-excluded, so the
//     output lists what the project needs but not the project itself.
//  3. [deps.Collect] walks the closure.
//  4. [deps.Order] arranges the names, and a [deps.Formatter] pins them.
//
// # Usage
//
//	runner := pipeline.NewRunner(registry, nil, nil, logger)
//	runner.Locator = &python.ProjectLocator{}
//	runner.Sources = python.Sources()
//	res, err := runner.Freeze(ctx, pipeline.DefaultOptions("flask", "requirements.txt"))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(strings.Join(res.Lines, "\n"))
//
// [Runner.Graph] runs stages 1 to 3 and returns the closure as a
// [dag.DAG] for rendering.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/errors"
)

// DefaultOrder is the default output order.
const DefaultOrder = "dependency"

// Graph output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported graph output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// Options configures a freeze. It is also the JSON body of the HTTP
// freeze endpoint.
type Options struct {
	Inputs           []string `json:"requirements"`
	Exclude          []string `json:"exclude,omitempty"`
	ExcludeRecursive []string `json:"exclude_recursive,omitempty"`
	NoVersion        []string `json:"no_version,omitempty"`
	Order            string   `json:"order,omitempty"`
	Reverse          bool     `json:"reverse,omitempty"`
	MaxDepth         int      `json:"depth"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-"` // Bypass result and response caches
	Dir     string      `json:"-"` // Base directory for relative paths (default: cwd)
	Logger  *log.Logger `json:"-"`

	mode deps.OrderMode
}

// DefaultOptions returns options for inputs with an unbounded depth and
// dependency order.
func DefaultOptions(inputs ...string) Options {
	return Options{
		Inputs:   inputs,
		Order:    DefaultOrder,
		MaxDepth: deps.Unbounded,
	}
}

// ValidateAndSetDefaults checks the order name and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Order == "" {
		o.Order = DefaultOrder
	}
	mode, err := deps.ParseOrderMode(o.Order)
	if err != nil {
		return err
	}
	o.mode = mode
	if o.MaxDepth < deps.Unbounded {
		o.MaxDepth = deps.Unbounded
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Result holds the output of [Runner.Freeze].
type Result struct {
	// Lines are the formatted requirement lines in output order.
	Lines []string `json:"requirements"`
	// Names are the canonical names in output order.
	Names []string `json:"names"`

	// Closure is the collector output. It is nil when the result came from
	// the cache.
	Closure *deps.Closure `json:"-"`

	Stats     Stats     `json:"-"`
	CacheInfo CacheInfo `json:"-"`
}

// Stats contains freeze execution statistics.
type Stats struct {
	Roots       int
	Names       int
	CollectTime time.Duration
	FormatTime  time.Duration
}

// CacheInfo tracks whether the result was served from the cache.
type CacheInfo struct {
	Hit bool
}

// ValidateFormat checks that a graph output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}
