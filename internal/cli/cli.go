package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/enorganic/requirements/internal/config"
	"github.com/enorganic/requirements/pkg/cache"
	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/deps/python"
	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/integrations/pypi"
	"github.com/enorganic/requirements/pkg/pipeline"
	"github.com/enorganic/requirements/pkg/requirement"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Registry replaces the registry built from configuration. Tests use it
	// to run commands against a deps.MemoryRegistry.
	Registry deps.Registry

	configFile string
	loaded     *config.Loaded
	run        *runLog
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// conf returns the loaded configuration, or the defaults before the
// root command has run.
func (c *CLI) conf() *config.Config {
	if c.loaded == nil {
		return config.DefaultConfig()
	}
	return c.loaded.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts selects the registry and caching for one command.
type runnerOpts struct {
	registry string
	noCache  bool
}

// newRunner creates a pipeline runner for CLI use. Local runs may read
// requirement files and resolve project directories.
func (c *CLI) newRunner(ctx context.Context, opts runnerOpts) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return nil, err
	}
	name, reg, env, err := c.newRegistry(ctx, opts.registry, backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	cfg := c.conf()
	runner := pipeline.NewRunner(reg, backend, nil, loggerFromContext(ctx))
	runner.RegistryName = c.registryKey(name)
	runner.Environment = env
	runner.Locator = &python.ProjectLocator{Python: cfg.Python}
	runner.Sources = python.Sources()
	if name == python.RegistryPyPI {
		runner.ResultTTL = cache.TTLFreeze
	}
	return runner, nil
}

// registryKey names the registry in result cache keys. PyPI results are
// keyed by index URL so a mirror and pypi.org never share entries.
func (c *CLI) registryKey(name string) string {
	if name == python.RegistryPyPI {
		if url := c.conf().PyPI.URL; url != "" {
			return name + " " + strings.TrimSuffix(url, "/")
		}
	}
	return name
}

// newRegistry builds the named registry (default: the configured one).
func (c *CLI) newRegistry(ctx context.Context, name string, backend cache.Cache) (string, deps.Registry, requirement.Environment, error) {
	cfg := c.conf()
	if name == "" {
		name = cfg.Registry
	}
	name, err := python.Language.Registry(name)
	if err != nil {
		return "", nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "registry")
	}
	if c.Registry != nil {
		return name, c.Registry, nil, nil
	}

	switch name {
	case python.RegistryPyPI:
		env := requirement.DefaultEnvironment()
		client := pypi.NewClient(backend, cfg.Cache.TTL)
		if cfg.PyPI.URL != "" {
			client = client.WithBaseURL(cfg.PyPI.URL)
		}
		return name, python.NewPyPIRegistry(client, env), env, nil
	default:
		ip, err := c.probe(ctx)
		if err != nil {
			return "", nil, nil, err
		}
		installer := &python.Installer{Python: cfg.Python}
		if cfg.Pip != "" {
			if installer.Pip, err = python.SplitCommand(cfg.Pip); err != nil {
				return "", nil, nil, err
			}
		}
		return name, python.NewSiteRegistry(ip, installer), ip.Env, nil
	}
}

// probe inspects the configured interpreter. Configured paths replace the
// probed sys.path; with paths configured a failed probe falls back to the
// default marker environment.
func (c *CLI) probe(ctx context.Context) (*python.Interpreter, error) {
	cfg := c.conf()
	logger := loggerFromContext(ctx)

	ip, err := python.Probe(ctx, nil, cfg.Python)
	if err != nil {
		if len(cfg.Paths) == 0 {
			return nil, err
		}
		logger.Warn("interpreter probe failed, using default environment", "err", err)
		ip = &python.Interpreter{Env: requirement.DefaultEnvironment()}
	}
	if len(cfg.Paths) > 0 {
		ip.Paths = cfg.Paths
	}
	logger.Debug("interpreter", "executable", ip.Executable, "paths", len(ip.Paths))
	return ip, nil
}

// newCache opens the configured cache: Redis when cache.redis is set,
// otherwise the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.conf()
	if cfg.Cache.Redis != "" {
		opt, err := redis.ParseURL(cfg.Cache.Redis)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cache.redis")
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis %s", opt.Addr)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns cache.dir, or the XDG cache directory
// (~/.cache/requirements/).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.conf().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}

// workDir returns the directory relative inputs are resolved against.
func workDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
