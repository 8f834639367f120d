package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/enorganic/requirements/internal/config"
	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/deps/python"
	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/pipeline"
)

// inputOpts holds the flags shared by freeze and graph.
type inputOpts struct {
	exclude          []string
	excludeRecursive []string
	depth            int
	registry         string
	refresh          bool
	noCache          bool
}

func (o *inputOpts) register(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&o.exclude, "exclude", "e", nil, "omit these distributions from the output (comma-delimited, repeatable)")
	fs.StringSliceVarP(&o.excludeRecursive, "exclude-recursive", "E", nil, "omit these distributions and everything only they require")
	fs.IntVarP(&o.depth, "depth", "d", deps.Unbounded, "levels of dependencies to follow below the roots (-1: unbounded)")
	fs.StringVar(&o.registry, "registry", "", "where distributions are looked up: site or pypi (default from config)")
	fs.BoolVar(&o.refresh, "refresh", false, "bypass cached registry responses and results")
	fs.BoolVar(&o.noCache, "no-cache", false, "disable the response cache")
}

func (o *inputOpts) pipelineOptions(inputs []string) pipeline.Options {
	opts := pipeline.DefaultOptions(inputs...)
	opts.Exclude = o.exclude
	opts.ExcludeRecursive = o.excludeRecursive
	opts.MaxDepth = o.depth
	opts.Refresh = o.refresh
	opts.Dir = workDir()
	return opts
}

// flagKeys maps flag names to the config keys that fill them when unset.
var flagKeys = map[string]string{
	"exclude":           "freeze.exclude",
	"exclude-recursive": "freeze.exclude_recursive",
	"no-version":        "freeze.no_version",
	"order":             "freeze.order",
	"reverse":           "freeze.reverse",
	"depth":             "freeze.depth",
	"registry":          "registry",
}

// applyConfig fills flags the user did not set from configuration.
func (c *CLI) applyConfig(fs *pflag.FlagSet) error {
	if c.loaded == nil {
		return nil
	}
	return config.ApplyFlags(fs, c.loaded.Viper, flagKeys)
}

// freezeOpts holds the command-line flags for the freeze command.
type freezeOpts struct {
	inputOpts
	noVersion    []string
	alphabetical bool
	order        string
	reverse      bool
	output       string
}

// freezeCommand creates the freeze command.
func (c *CLI) freezeCommand() *cobra.Command {
	opts := freezeOpts{order: pipeline.DefaultOrder}

	cmd := &cobra.Command{
		Use:   "freeze [requirement|file|directory ...]",
		Short: "Print the pinned dependency closure of requirements",
		Long: `Print the pinned dependency closure of requirement specifiers,
requirement files (requirements*.txt, setup.cfg, tox.ini, pyproject.toml,
poetry.lock, environment.yml) and local project directories.

Project directories are resolved to their distribution name; the output
lists what they require but not the projects themselves. With no
arguments, requirement files in the working directory are used (on a
terminal you pick them from a list).

Examples:
  requirements freeze requests
  requirements freeze . -e pip -E setuptools
  requirements freeze requirements.txt --order alphabetical -o frozen.txt
  requirements freeze "flask[async]" --registry pypi -n "importlib-*"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyConfig(cmd.Flags()); err != nil {
				return err
			}
			return c.runFreeze(cmd, args, &opts)
		},
	}

	fs := cmd.Flags()
	opts.register(fs)
	fs.StringArrayVarP(&opts.noVersion, "no-version", "n", nil, "emit matching names without a version (glob, repeatable)")
	fs.BoolVarP(&opts.alphabetical, "alphabetical-order", "a", false, "sort alphabetically (same as --order alphabetical)")
	fs.StringVar(&opts.order, "order", opts.order, "output order: dependency, alphabetical or discovered")
	fs.BoolVar(&opts.reverse, "reverse", false, "reverse the output order")
	fs.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runFreeze(cmd *cobra.Command, args []string, opts *freezeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	inputs, err := c.inputs(ctx, args)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, runnerOpts{registry: opts.registry, noCache: opts.noCache})
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.pipelineOptions(inputs)
	popts.NoVersion = opts.noVersion
	popts.Order = opts.order
	if opts.alphabetical {
		popts.Order = deps.Alphabetical.String()
	}
	popts.Reverse = opts.reverse
	popts.Logger = logger

	spin := startSpinner(ctx, "Resolving requirements...")
	res, err := runner.Freeze(ctx, popts)
	spin.Stop()
	if err != nil {
		return err
	}
	c.run.done("froze requirements", "lines", len(res.Lines), "cached", res.CacheInfo.Hit)

	if err := writeOutput(cmd, opts.output, res.Lines); err != nil {
		return err
	}
	if opts.output != "" {
		printStats(res.Stats.Roots, len(res.Names), res.CacheInfo.Hit)
	}
	return nil
}

// inputs returns args, or the requirement files discovered in the working
// directory when there are none.
func (c *CLI) inputs(ctx context.Context, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := discoverSources(workDir(), python.Sources())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no requirements given and no requirement files found in %s", workDir())
	}
	if !isInteractive() || len(files) == 1 {
		loggerFromContext(ctx).Infof("Using %s", strings.Join(files, ", "))
		return files, nil
	}
	return pickSources(files)
}

// discoverSources lists the files in dir that a source can read, sorted.
// Text files count only when their name mentions requirements.
func discoverSources(dir string, sources []deps.Source) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		if strings.HasSuffix(lower, ".txt") && !strings.Contains(lower, "requirements") {
			continue
		}
		for _, s := range sources {
			if s.Supports(e.Name()) {
				files = append(files, e.Name())
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// writeOutput prints lines newline-joined to path, or to stdout.
func writeOutput(cmd *cobra.Command, path string, lines []string) error {
	text := strings.Join(lines, "\n")
	if path == "" {
		if text != "" {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
		return nil
	}
	if text != "" {
		text += "\n"
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printFile(path)
	return nil
}
