package python

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/requirement"
)

// SiteRegistry is a [deps.Registry] over installed distributions found in
// site-packages directories. The directories are scanned lazily on first
// use and again after [SiteRegistry.Invalidate]. When a name is installed
// in more than one directory, the first directory in Paths wins.
//
// A SiteRegistry is safe for concurrent use.
type SiteRegistry struct {
	Paths     []string                // Directories to scan, in sys.path order
	Env       requirement.Environment // Marker environment for records
	Installer *Installer              // Installs missing names (nil: never install)

	mu    sync.Mutex
	dists map[string]*deps.Distribution
}

// NewSiteRegistry returns a registry for the interpreter described by ip.
func NewSiteRegistry(ip *Interpreter, installer *Installer) *SiteRegistry {
	return &SiteRegistry{Paths: ip.Paths, Env: ip.Env, Installer: installer}
}

// Resolve implements [deps.Registry].
func (r *SiteRegistry) Resolve(_ context.Context, name string) (*deps.Distribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()
	if d, ok := r.dists[requirement.Canonicalize(name)]; ok {
		return d, nil
	}
	return nil, deps.NotFound(name)
}

// EnsureAvailable implements [deps.Registry]. It installs name with the
// configured installer, rescans, and resolves again. A distribution that
// is already installed as editable is reinstalled from its project
// directory; the collector only reaches this after a miss, so that path is
// taken by direct callers such as "show --install".
func (r *SiteRegistry) EnsureAvailable(ctx context.Context, name string) (*deps.Distribution, error) {
	if r.Installer == nil {
		return nil, deps.NotFound(name)
	}
	var location string
	if d, err := r.Resolve(ctx, name); err == nil {
		location = d.Location
	}
	if err := r.Installer.Install(ctx, name, location); err != nil {
		return nil, err
	}
	r.Invalidate()
	return r.Resolve(ctx, name)
}

// Invalidate implements [deps.Registry].
func (r *SiteRegistry) Invalidate() {
	r.mu.Lock()
	r.dists = nil
	r.mu.Unlock()
}

// All returns every installed distribution sorted by canonical name.
func (r *SiteRegistry) All() []*deps.Distribution {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()
	out := make([]*deps.Distribution, 0, len(r.dists))
	for _, d := range r.dists {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b *deps.Distribution) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *SiteRegistry) loadLocked() {
	if r.dists != nil {
		return
	}
	r.dists = make(map[string]*deps.Distribution)
	editables := make(map[string]string)
	for _, dir := range r.Paths {
		r.scan(dir, editables)
	}
	for name, location := range editables {
		if d, ok := r.dists[name]; ok && d.Location == "" {
			d.Location = location
		}
	}
}

// scan reads one directory. Unreadable entries are skipped: a broken
// install of one distribution must not hide the others.
func (r *SiteRegistry) scan(dir string, editables map[string]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		var (
			d   *deps.Distribution
			err error
		)
		switch name := e.Name(); {
		case strings.HasSuffix(name, ".dist-info") && e.IsDir():
			d, err = loadDistInfo(path)
		case strings.HasSuffix(name, ".egg-info"):
			d, err = loadEggInfo(path)
		case strings.HasSuffix(name, ".egg-link"):
			d, err = loadEggLink(path)
		case strings.HasPrefix(name, "__editable__.") && strings.HasSuffix(name, ".pth"):
			if dist, location := editablePth(path); location != "" {
				if _, seen := editables[dist]; !seen {
					editables[dist] = location
				}
			}
			continue
		default:
			continue
		}
		if err != nil || d == nil {
			continue
		}
		if d.Name == "" {
			d.Display = metadataDirName(e.Name())
			d.Name = requirement.Canonicalize(d.Display)
		}
		d.Env = r.Env
		if _, exists := r.dists[d.Name]; !exists {
			r.dists[d.Name] = d
		}
	}
}

// loadEggLink follows a setuptools develop-mode *.egg-link to the project
// directory and reads the *.egg-info found there.
func loadEggLink(path string) (*deps.Distribution, error) {
	location, err := firstLine(path)
	if err != nil {
		return nil, err
	}
	matches, _ := filepath.Glob(filepath.Join(location, "*.egg-info"))
	if len(matches) == 0 {
		matches, _ = filepath.Glob(filepath.Join(location, "src", "*.egg-info"))
	}
	if len(matches) == 0 {
		return nil, deps.NotFound(filepath.Base(path))
	}
	d, err := loadEggInfo(matches[0])
	if err != nil {
		return nil, err
	}
	d.Location = location
	return d, nil
}

// editablePth reads a setuptools "__editable__.<name>-<version>.pth" file
// and returns the canonical name and the first directory it adds to
// sys.path. Import-hook style files (lines starting with "import") yield
// no location.
func editablePth(path string) (string, string) {
	base := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "__editable__."), ".pth")
	name, _, _ := strings.Cut(base, "-")

	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "import") || strings.HasPrefix(line, "#") {
			continue
		}
		if info, err := os.Stat(line); err == nil && info.IsDir() {
			// src layouts add <project>/src to sys.path.
			if filepath.Base(line) == "src" {
				line = filepath.Dir(line)
			}
			return requirement.Canonicalize(name), line
		}
	}
	return "", ""
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", scanner.Err()
}
