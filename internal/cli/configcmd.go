package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/enorganic/requirements/internal/config"
	"github.com/enorganic/requirements/pkg/errors"
)

// configCommand creates the config command, which prints the effective
// configuration as YAML.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as YAML: built-in defaults, overridden
by the config file, overridden by REQUIREMENTS_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := "(none)"
			if c.loaded != nil && c.loaded.Path != "" {
				path = c.loaded.Path
			}
			fmt.Fprintf(out, "# config file: %s\n", path)
			if dir, err := config.Dir(); err == nil {
				fmt.Fprintf(out, "# user config dir: %s\n", dir)
			}

			data, err := yaml.Marshal(c.conf())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
			}
			_, err = out.Write(data)
			return err
		},
	}
}
