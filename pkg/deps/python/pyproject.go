package python

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type pyprojectFile struct {
	BuildSystem struct {
		Requires []string `toml:"requires"`
	} `toml:"build-system"`
	Project struct {
		Name                 string              `toml:"name"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Pyproject reads build-system.requires, project.dependencies and every
// project.optional-dependencies group from pyproject.toml.
type Pyproject struct{}

func (p *Pyproject) Type() string              { return "pyproject" }
func (p *Pyproject) Supports(name string) bool { return filepath.Base(name) == "pyproject.toml" }

func (p *Pyproject) ReadSpecifiers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc pyprojectFile
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}

	lines := append([]string(nil), doc.BuildSystem.Requires...)
	lines = append(lines, doc.Project.Dependencies...)
	// Groups in document order.
	for _, key := range md.Keys() {
		if len(key) == 3 && key[0] == "project" && key[1] == "optional-dependencies" {
			lines = append(lines, doc.Project.OptionalDependencies[key[2]]...)
		}
	}
	return specifierLines(lines), nil
}

// pyprojectName returns [project] name, or [tool.poetry] name, from
// dir/pyproject.toml.
func pyprojectName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		return ""
	}
	var doc pyprojectFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return ""
	}
	if doc.Project.Name != "" {
		return doc.Project.Name
	}
	return doc.Tool.Poetry.Name
}
