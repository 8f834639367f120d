package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	inputOpts
	format   string
	detailed bool
	output   string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: pipeline.FormatDOT}

	cmd := &cobra.Command{
		Use:   "graph [requirement|file|directory ...]",
		Short: "Render the dependency closure as a graph",
		Long: `Render the dependency closure as a Graphviz DOT document, an SVG image
or JSON. Roots are drawn bold, editable installs are shaded, and edges
that close a cycle are dashed.

Examples:
  requirements graph requests | dot -Tpng > requests.png
  requirements graph . --format svg --detailed -o deps.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyConfig(cmd.Flags()); err != nil {
				return err
			}
			return c.runGraph(cmd, args, &opts)
		},
	}

	fs := cmd.Flags()
	opts.register(fs)
	fs.StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg or json")
	fs.BoolVar(&opts.detailed, "detailed", false, "label nodes with versions and editable locations")
	fs.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, args []string, opts *graphOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return err
	}
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
	popts.Logger = logger

	spin := startSpinner(ctx, "Resolving requirements...")
	g, err := runner.Graph(ctx, popts)
	spin.Stop()
	if err != nil {
		return err
	}
	data, err := pipeline.RenderGraph(ctx, g, opts.format, opts.detailed)
	if err != nil {
		return err
	}
	c.run.done("rendered graph", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "format", opts.format)

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printFile(opts.output)
	if opts.format == pipeline.FormatDOT {
		printNextStep("Render", "dot", "-Tsvg", opts.output)
	}
	return nil
}
