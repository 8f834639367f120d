package python

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"

	"github.com/enorganic/requirements/pkg/errors"
)

// DefaultPython is the interpreter command used when none is configured.
const DefaultPython = "python3"

// Command is one external process invocation.
type Command struct {
	Dir  string
	Args []string // Args[0] is the program
}

// Runner executes commands. Implementations return stdout and stderr
// separately; err is non-nil when the process could not start or exited
// with a non-zero status.
type Runner interface {
	Run(ctx context.Context, cmd Command) (stdout, stderr []byte, err error)
}

// RunnerFunc adapts a function to the [Runner] interface.
type RunnerFunc func(ctx context.Context, cmd Command) ([]byte, []byte, error)

// Run implements [Runner].
func (f RunnerFunc) Run(ctx context.Context, cmd Command) ([]byte, []byte, error) {
	return f(ctx, cmd)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements [Runner].
func (ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, []byte, error) {
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8", "PIP_DISABLE_PIP_VERSION_CHECK=1")
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	err := c.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// SplitCommand splits a user-supplied command string such as
// "uv run python" into program and arguments.
func SplitCommand(raw string) ([]string, error) {
	args, err := shellwords.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse command %q", raw)
	}
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "command must contain at least one argument")
	}
	return args, nil
}

func runnerOrDefault(r Runner) Runner {
	if r == nil {
		return ExecRunner{}
	}
	return r
}

func pythonOrDefault(python string) string {
	if python == "" {
		return DefaultPython
	}
	return python
}
