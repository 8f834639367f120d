package cli

import (
	"github.com/spf13/cobra"

	"github.com/enorganic/requirements/internal/server"
	"github.com/enorganic/requirements/pkg/cache"
	"github.com/enorganic/requirements/pkg/deps/python"
	"github.com/enorganic/requirements/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		registry string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the freeze pipeline over HTTP",
		Long: `Serve the freeze pipeline over HTTP.

  GET  /healthz
  POST /v1/freeze                {"requirements": ["flask"], "order": "dependency", ...}
  GET  /v1/distributions/{name}

Only requirement specifiers are accepted; file paths and project
directories are refused. Set cache.redis to share registry responses and
results between instances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyConfig(cmd.Flags()); err != nil {
				return err
			}
			ctx := cmd.Context()
			if addr == "" {
				addr = c.conf().Serve.Addr
			}

			backend, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			name, reg, env, err := c.newRegistry(ctx, registry, backend)
			if err != nil {
				_ = backend.Close()
				return err
			}

			runner := pipeline.NewRunner(reg, backend, nil, c.Logger)
			runner.RegistryName = c.registryKey(name)
			runner.Environment = env
			if name == python.RegistryPyPI {
				runner.ResultTTL = cache.TTLFreeze
			}
			defer runner.Close()

			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from serve.addr)")
	cmd.Flags().StringVar(&registry, "registry", "", "where distributions are looked up: site or pypi")
	return cmd
}
