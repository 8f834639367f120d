package python

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/enorganic/requirements/pkg/errors"
)

// ProjectLocator resolves the distribution name of a local project
// directory. It reads, in order: setup.cfg [metadata] name, pyproject.toml
// [project] name or [tool.poetry] name, and finally the output of
// "python setup.py --name".
type ProjectLocator struct {
	Python string
	Runner Runner
}

// ProjectName implements [requirement.Locator].
//
// [requirement.Locator]: github.com/enorganic/requirements/pkg/requirement.Locator
func (l *ProjectLocator) ProjectName(ctx context.Context, dir string) (string, error) {
	if name := setupCfgName(dir); name != "" {
		return name, nil
	}
	if name := pyprojectName(dir); name != "" {
		return name, nil
	}
	if _, err := os.Stat(filepath.Join(dir, "setup.py")); err != nil {
		return "", errors.New(errors.ErrCodeMalformedSpecifier, "no project metadata found in %s", dir)
	}

	args, err := SplitCommand(pythonOrDefault(l.Python))
	if err != nil {
		return "", err
	}
	stdout, stderr, err := runnerOrDefault(l.Runner).Run(ctx, Command{Dir: dir, Args: append(args, "setup.py", "--name")})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMalformedSpecifier, err, "setup.py --name in %s: %s", dir, lastLines(string(stderr), 3))
	}
	// setup.py may print warnings before the name.
	lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if name := strings.TrimSpace(lines[i]); name != "" {
			return name, nil
		}
	}
	return "", errors.New(errors.ErrCodeMalformedSpecifier, "setup.py --name printed nothing in %s", dir)
}
