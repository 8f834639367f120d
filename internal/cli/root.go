package cli

import (
	"github.com/spf13/cobra"

	"github.com/enorganic/requirements/internal/config"
	"github.com/enorganic/requirements/pkg/buildinfo"
	"github.com/enorganic/requirements/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Freeze the dependency closure of Python requirements",
		Long: `requirements computes the transitive closure of Python requirement
specifiers, requirement files and local projects, orders it so that every
distribution follows its dependencies, and prints it pinned to the
installed (or latest published) versions.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ./requirements.{toml,yaml,yml,json})")

	root.AddCommand(c.freezeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration, attaches the logger to the command context
// and routes freeze events to it.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(config.LoadOptions{File: c.configFile})
	if err != nil {
		return err
	}
	c.loaded = loaded
	if loaded.Path != "" {
		c.Logger.Debug("loaded config", "path", loaded.Path)
	}

	c.run = newRunLog(c.Logger)
	observability.SetFreezeHooks(c.run)
	observability.SetCacheHooks(&cacheHooks{logger: c.Logger})
	observability.SetHTTPHooks(&httpHooks{logger: c.Logger})
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
