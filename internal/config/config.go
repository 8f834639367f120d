// Package config loads CLI and server settings with Viper.
//
// Settings come, in increasing precedence, from built-in defaults, an
// optional requirements.{toml,yaml,yml,json} file, REQUIREMENTS_*
// environment variables and command-line flags. The file is looked up in
// the working directory and then in [Dir], unless --config names one.
//
// Environment variable names are the upper-cased key with "." and "-"
// replaced by "_": freeze.no_version is REQUIREMENTS_FREEZE_NO_VERSION.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/enorganic/requirements/pkg/cache"
	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/integrations/pypi"
)

const (
	// AppName is the application name.
	AppName = "requirements"
	// FileName is the config file name without extension.
	FileName = "requirements"
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "REQUIREMENTS"
)

// Extensions are the supported config file extensions, in lookup order.
var Extensions = []string{"toml", "yaml", "yml", "json"}

// Config is the complete configuration.
type Config struct {
	Registry string       `mapstructure:"registry" yaml:"registry"`
	Python   string       `mapstructure:"python" yaml:"python"`
	Pip      string       `mapstructure:"pip" yaml:"pip"`
	Paths    []string     `mapstructure:"paths" yaml:"paths"`
	Cache    CacheConfig  `mapstructure:"cache" yaml:"cache"`
	PyPI     PyPIConfig   `mapstructure:"pypi" yaml:"pypi"`
	Freeze   FreezeConfig `mapstructure:"freeze" yaml:"freeze"`
	Serve    ServeConfig  `mapstructure:"serve" yaml:"serve"`
}

// CacheConfig configures response and result caching.
type CacheConfig struct {
	Dir   string        `mapstructure:"dir" yaml:"dir"`     // File cache directory (default: user cache dir)
	TTL   time.Duration `mapstructure:"ttl" yaml:"ttl"`     // Entry lifetime
	Redis string        `mapstructure:"redis" yaml:"redis"` // redis://host:port/db; replaces the file cache
}

// PyPIConfig configures the PyPI registry.
type PyPIConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// FreezeConfig holds defaults for freeze flags left unset.
type FreezeConfig struct {
	Exclude          []string `mapstructure:"exclude" yaml:"exclude"`
	ExcludeRecursive []string `mapstructure:"exclude_recursive" yaml:"exclude_recursive"`
	NoVersion        []string `mapstructure:"no_version" yaml:"no_version"`
	Order            string   `mapstructure:"order" yaml:"order"`
	Reverse          bool     `mapstructure:"reverse" yaml:"reverse"`
	Depth            int      `mapstructure:"depth" yaml:"depth"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Registry: "site",
		Python:   "",
		Cache: CacheConfig{
			TTL: cache.TTLHTTP,
		},
		PyPI: PyPIConfig{
			URL: pypi.DefaultBaseURL,
		},
		Freeze: FreezeConfig{
			Order: "dependency",
			Depth: deps.Unbounded,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// Dir returns the per-user configuration directory:
// $XDG_CONFIG_HOME/requirements, or the platform equivalent.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// LoadOptions controls where [Load] looks for a config file.
type LoadOptions struct {
	// File is an explicit config file. It must exist.
	File string
	// SearchDirs replaces the default lookup (working directory, then Dir).
	SearchDirs []string
}

// Loaded is the result of [Load].
type Loaded struct {
	Config *Config
	// Path is the config file that was read, or "" when none was found.
	Path string
	// Viper holds the merged settings, for filling unset flags.
	Viper *viper.Viper
}

// Load merges defaults, the config file and environment variables.
func Load(opts LoadOptions) (*Loaded, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path := opts.File
	if path != "" {
		if !fileExists(path) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
	} else {
		path = find(opts.SearchDirs)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	return &Loaded{Config: &cfg, Path: path, Viper: v}, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("registry", d.Registry)
	v.SetDefault("python", d.Python)
	v.SetDefault("pip", d.Pip)
	v.SetDefault("paths", d.Paths)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis", d.Cache.Redis)
	v.SetDefault("pypi.url", d.PyPI.URL)
	v.SetDefault("freeze.exclude", d.Freeze.Exclude)
	v.SetDefault("freeze.exclude_recursive", d.Freeze.ExcludeRecursive)
	v.SetDefault("freeze.no_version", d.Freeze.NoVersion)
	v.SetDefault("freeze.order", d.Freeze.Order)
	v.SetDefault("freeze.reverse", d.Freeze.Reverse)
	v.SetDefault("freeze.depth", d.Freeze.Depth)
	v.SetDefault("serve.addr", d.Serve.Addr)
}

func find(dirs []string) string {
	if dirs == nil {
		dirs = []string{"."}
		if d, err := Dir(); err == nil {
			dirs = append(dirs, d)
		}
	}
	for _, dir := range dirs {
		for _, ext := range Extensions {
			p := filepath.Join(dir, FileName+"."+ext)
			if fileExists(p) {
				return p
			}
		}
	}
	return ""
}

// ApplyFlags fills every flag of fs that was not set on the command line
// from the config key mapped to its name. Slice flags are replaced, not
// appended to.
func ApplyFlags(fs *pflag.FlagSet, v *viper.Viper, keys map[string]string) error {
	var firstErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok || f.Changed || !v.IsSet(key) {
			return
		}
		var err error
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			err = sv.Replace(v.GetStringSlice(key))
		} else {
			err = f.Value.Set(fmt.Sprint(v.Get(key)))
		}
		if err != nil && firstErr == nil {
			firstErr = errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", key)
		}
	})
	return firstErr
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
