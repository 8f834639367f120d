package deps

import (
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/enorganic/requirements/pkg/errors"
)

// Source reads requirement strings from a local project or requirements
// file.
type Source interface {
	// ReadSpecifiers returns the raw requirement strings declared in path.
	ReadSpecifiers(path string) ([]string, error)
	// Supports reports whether this source handles the given filename.
	Supports(filename string) bool
	// Type returns the source type identifier (e.g., "requirements", "tox").
	Type() string
}

// DetectSource finds a source that supports the given file path.
// Returns an error if no source matches.
func DetectSource(path string, sources ...Source) (Source, error) {
	name := filepath.Base(path)
	for _, s := range sources {
		if s.Supports(name) {
			return s, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported requirements file: %s", name)
}

// IsSourceFile reports whether path exists as a regular file and some
// source supports it.
func IsSourceFile(path string, sources ...Source) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	_, err = DetectSource(path, sources...)
	return err == nil
}

// ReadSpecifiers reads every path with its matching source and returns the
// concatenated specifiers, deduplicated in order of first appearance.
func ReadSpecifiers(paths []string, sources ...Source) ([]string, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	for _, path := range paths {
		src, err := DetectSource(path, sources...)
		if err != nil {
			return nil, err
		}
		specs, err := src.ReadSpecifiers(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
		}
		for _, s := range specs {
			if seen.Add(s) {
				out = append(out, s)
			}
		}
	}
	return out, nil
}
