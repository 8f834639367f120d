// Package python implements requirement sources, registries and project
// discovery for Python distributions.
//
// # Sources
//
// Requirement strings are read from requirements*.txt (any *.txt),
// setup.cfg, tox.ini, pyproject.toml, poetry.lock and conda
// environment.yml files. Every source implements [deps.Source].
//
// # Registries
//
// [SiteRegistry] reads installed distributions from site-packages
// directories and installs missing ones with pip. [PyPIRegistry] reads
// release metadata from the PyPI JSON API and never installs.
//
// # Interpreter
//
// [Probe] runs the target interpreter once to learn its sys.path and its
// environment-marker values; [ProjectLocator] resolves project names from
// local project directories.
package python

import (
	"github.com/enorganic/requirements/pkg/deps"
)

// Registry names.
const (
	RegistrySite = "site"
	RegistryPyPI = "pypi"
)

// Language describes the Python registries and requirement sources.
var Language = &deps.Language{
	Name:            "python",
	DefaultRegistry: RegistrySite,
	Registries:      []string{RegistrySite, RegistryPyPI},
	RegistryAliases: map[string]string{
		"installed":     RegistrySite,
		"site-packages": RegistrySite,
		"index":         RegistryPyPI,
		"pypi.org":      RegistryPyPI,
	},
	SourceTypes: []string{"requirements", "setup.cfg", "tox.ini", "pyproject", "poetry", "conda"},
	SourceAliases: map[string]string{
		"requirements.txt": "requirements",
		"pyproject.toml":   "pyproject",
		"poetry.lock":      "poetry",
		"environment.yml":  "conda",
		"environment.yaml": "conda",
	},
	NewSource: newSource,
}

func newSource(name string) deps.Source {
	switch name {
	case "requirements":
		return &Requirements{}
	case "setup.cfg":
		return &SetupCfg{}
	case "tox.ini":
		return &ToxIni{}
	case "pyproject":
		return &Pyproject{}
	case "poetry":
		return &PoetryLock{}
	case "conda":
		return &CondaEnvironment{}
	default:
		return nil
	}
}

// Sources returns every Python requirement source.
func Sources() []deps.Source {
	return Language.Sources()
}
