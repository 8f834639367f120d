package python

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Category string `toml:"category"`
	Optional bool   `toml:"optional"`
}

// PoetryLock reads the locked package names from poetry.lock. Versions are
// not carried over: the freeze pins whatever the registry reports.
type PoetryLock struct{}

func (p *PoetryLock) Type() string              { return "poetry" }
func (p *PoetryLock) Supports(name string) bool { return filepath.Base(name) == "poetry.lock" }

func (p *PoetryLock) ReadSpecifiers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	var names []string
	for _, pkg := range lock.Packages {
		if pkg.Name == "" || pkg.Optional || (pkg.Category != "" && pkg.Category != "main") {
			continue
		}
		names = append(names, pkg.Name)
	}
	return specifierLines(names), nil
}
