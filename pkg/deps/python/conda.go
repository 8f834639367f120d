package python

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CondaEnvironment reads the pip section of a conda environment file.
// Conda packages themselves are not Python distributions and are ignored.
type CondaEnvironment struct{}

func (c *CondaEnvironment) Type() string { return "conda" }

func (c *CondaEnvironment) Supports(name string) bool {
	base := filepath.Base(name)
	return base == "environment.yml" || base == "environment.yaml"
}

func (c *CondaEnvironment) ReadSpecifiers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var env struct {
		Dependencies []yaml.Node `yaml:"dependencies"`
	}
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var lines []string
	for _, dep := range env.Dependencies {
		if dep.Kind != yaml.MappingNode {
			continue
		}
		var section map[string][]string
		if err := dep.Decode(&section); err != nil {
			continue
		}
		for key, values := range section {
			if strings.TrimSpace(key) == "pip" {
				lines = append(lines, values...)
			}
		}
	}
	return specifierLines(lines), nil
}
