package python

import (
	"bytes"
	"context"
	"strings"

	"github.com/enorganic/requirements/pkg/errors"
)

// Installer installs single distributions with pip, without their
// dependencies: the resolver walks dependencies itself and installs each
// missing name on demand.
type Installer struct {
	Pip    []string // pip command; default: <Python> -m pip
	Python string   // interpreter used for the default pip command
	Runner Runner   // default: ExecRunner
	Dir    string   // working directory for pip
}

// Install installs name. When location is non-empty the distribution is
// an editable project and is reinstalled from that directory, forcing a
// reinstall if the first attempt fails.
func (i *Installer) Install(ctx context.Context, name, location string) error {
	base := []string{"install", "--no-deps", "--no-compile", "--no-build-isolation"}
	if location == "" {
		return i.run(ctx, name, append(base, name))
	}

	err := i.run(ctx, name, append(base, "-e", location))
	if err == nil {
		return nil
	}
	return i.run(ctx, name, append(base, "--force-reinstall", "-e", location))
}

func (i *Installer) run(ctx context.Context, name string, args []string) error {
	prefix, err := i.command()
	if err != nil {
		return err
	}
	cmd := Command{Dir: i.Dir, Args: append(prefix, args...)}
	stdout, stderr, err := runnerOrDefault(i.Runner).Run(ctx, cmd)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	output := strings.TrimSpace(string(bytes.TrimSpace(stderr)))
	if output == "" {
		output = strings.TrimSpace(string(stdout))
	}
	if output != "" {
		return errors.Wrap(errors.ErrCodeInstallFailed, err, "%s: %s", strings.Join(cmd.Args, " "), lastLines(output, 5))
	}
	return errors.Wrap(errors.ErrCodeInstallFailed, err, "install %s", name)
}

func (i *Installer) command() ([]string, error) {
	if len(i.Pip) > 0 {
		return append([]string(nil), i.Pip...), nil
	}
	args, err := SplitCommand(pythonOrDefault(i.Python))
	if err != nil {
		return nil, err
	}
	return append(args, "-m", "pip"), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
