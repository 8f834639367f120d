package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/requirement"
)

// showCommand creates the show command, which prints one registry record.
func (c *CLI) showCommand() *cobra.Command {
	var (
		registry string
		extras   []string
		install  bool
	)

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a distribution's version and direct requirements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyConfig(cmd.Flags()); err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := errors.ValidatePythonPackageName(args[0]); err != nil {
				return err
			}

			backend, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer backend.Close()
			_, reg, _, err := c.newRegistry(ctx, registry, backend)
			if err != nil {
				return err
			}

			name := requirement.Canonicalize(args[0])
			var dist *deps.Distribution
			if install {
				// An installed editable is reinstalled from its project
				// directory.
				loggerFromContext(ctx).Info("installing", "name", name)
				dist, err = reg.EnsureAvailable(ctx, name)
			} else {
				dist, err = reg.Resolve(ctx, name)
			}
			if err != nil {
				if deps.IsNotFound(err) {
					return errors.Wrap(errors.ErrCodeNotFound, err, "%s is not available from the %s registry", args[0], registryLabel(registry, c.conf().Registry))
				}
				return err
			}
			reqs, err := dist.Requirements(extras)
			if err != nil {
				return err
			}
			printDistribution(dist, reqs)
			return nil
		},
	}

	cmd.Flags().StringVar(&registry, "registry", "", "where the distribution is looked up: site or pypi")
	cmd.Flags().StringSliceVar(&extras, "extras", nil, "also list requirements of these extras")
	cmd.Flags().BoolVar(&install, "install", false, "install the distribution first (editable installs are reinstalled from their project)")
	return cmd
}

func printDistribution(d *deps.Distribution, reqs []requirement.Requirement) {
	printKeyValue("Name", StyleHighlight.Render(d.Display))
	printKeyValue("Version", d.Version)
	if d.Editable() {
		printKeyValue("Editable", d.Location)
	}
	if len(reqs) == 0 {
		printKeyValue("Requires", StyleDim.Render("(none)"))
		return
	}
	printKeyValue("Requires", fmt.Sprintf("%d", len(reqs)))
	for _, r := range reqs {
		printDetail("%s", r.String())
	}
}

func registryLabel(flag, configured string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	return configured
}
