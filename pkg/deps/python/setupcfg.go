package python

import (
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// iniOptions match Python's configparser closely enough for setup.cfg and
// tox.ini: indented continuation lines, ";" kept in values (markers), and
// unparseable lines skipped.
var iniOptions = ini.LoadOptions{
	AllowPythonMultilineValues: true,
	IgnoreInlineComment:        true,
	SkipUnrecognizableLines:    true,
	AllowBooleanKeys:           true,
	KeyValueDelimiters:         "=:",
}

func loadIni(path string) (*ini.File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return ini.LoadSources(iniOptions, path)
}

// SetupCfg reads install_requires and every extras_require group from a
// setuptools setup.cfg.
type SetupCfg struct{}

func (s *SetupCfg) Type() string              { return "setup.cfg" }
func (s *SetupCfg) Supports(name string) bool { return filepath.Base(name) == "setup.cfg" }

func (s *SetupCfg) ReadSpecifiers(path string) ([]string, error) {
	cfg, err := loadIni(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	if sec, err := cfg.GetSection("options"); err == nil && sec.HasKey("install_requires") {
		lines = append(lines, splitLines(sec.Key("install_requires").String())...)
	}
	if sec, err := cfg.GetSection("options.extras_require"); err == nil {
		for _, key := range sec.Keys() {
			lines = append(lines, splitLines(key.String())...)
		}
	}
	return specifierLines(lines), nil
}

// setupCfgName returns [metadata] name from dir/setup.cfg, if any.
func setupCfgName(dir string) string {
	cfg, err := loadIni(filepath.Join(dir, "setup.cfg"))
	if err != nil {
		return ""
	}
	sec, err := cfg.GetSection("metadata")
	if err != nil {
		return ""
	}
	return sec.Key("name").String()
}

// ToxIni reads tox.ini: tox itself, every section's deps and [tox]
// requires.
type ToxIni struct{}

func (t *ToxIni) Type() string              { return "tox.ini" }
func (t *ToxIni) Supports(name string) bool { return filepath.Base(name) == "tox.ini" }

func (t *ToxIni) ReadSpecifiers(path string) ([]string, error) {
	cfg, err := loadIni(path)
	if err != nil {
		return nil, err
	}
	lines := []string{"tox"}
	for _, sec := range cfg.Sections() {
		if sec.HasKey("deps") {
			lines = append(lines, splitLines(sec.Key("deps").String())...)
		}
		if sec.Name() == "tox" && sec.HasKey("requires") {
			lines = append(lines, splitLines(sec.Key("requires").String())...)
		}
	}
	return specifierLines(lines), nil
}
