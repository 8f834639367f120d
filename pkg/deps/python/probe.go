package python

import (
	"context"
	"encoding/json"

	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/requirement"
)

// probeScript prints the interpreter's sys.path and marker environment as
// one JSON object.
const probeScript = `import json, os, platform, sys
impl = sys.implementation
v = impl.version
iv = "%d.%d.%d" % (v.major, v.minor, v.micro)
if v.releaselevel != "final":
    iv += v.releaselevel[0] + str(v.serial)
print(json.dumps({
    "executable": sys.executable,
    "prefix": sys.prefix,
    "path": [p for p in sys.path if p],
    "env": {
        "implementation_name": impl.name,
        "implementation_version": iv,
        "os_name": os.name,
        "platform_machine": platform.machine(),
        "platform_python_implementation": platform.python_implementation(),
        "platform_release": platform.release(),
        "platform_system": platform.system(),
        "platform_version": platform.version(),
        "python_full_version": platform.python_version(),
        "python_version": ".".join(platform.python_version_tuple()[:2]),
        "sys_platform": sys.platform,
    },
}))
`

// Interpreter describes a probed Python interpreter.
type Interpreter struct {
	Executable string                  `json:"executable"`
	Prefix     string                  `json:"prefix"`
	Paths      []string                `json:"path"`
	Env        requirement.Environment `json:"env"`
}

// Probe runs python once and reports its sys.path and marker environment.
func Probe(ctx context.Context, runner Runner, python string) (*Interpreter, error) {
	args, err := SplitCommand(pythonOrDefault(python))
	if err != nil {
		return nil, err
	}
	stdout, stderr, err := runnerOrDefault(runner).Run(ctx, Command{Args: append(args, "-c", probeScript)})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "probe %s: %s", python, lastLines(string(stderr), 3))
	}

	var ip Interpreter
	if err := json.Unmarshal(stdout, &ip); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "probe %s: unexpected output", python)
	}
	if ip.Env == nil {
		ip.Env = requirement.DefaultEnvironment()
	}
	return &ip, nil
}
