package python

import (
	"bufio"
	"encoding/json"
	"io"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/requirement"
)

// metadata holds the header fields of a METADATA or PKG-INFO file.
type metadata struct {
	Name         string
	Version      string
	RequiresDist []string
}

// readMetadata parses the RFC 822 header block of a core metadata file.
// The message body (long description) is ignored.
func readMetadata(path string) (*metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Old tools wrote invalid header lines; keep what was read before one.
	hdr, err := textproto.NewReader(bufio.NewReader(f)).ReadMIMEHeader()
	if err != nil && err != io.EOF && hdr.Get("Name") == "" {
		return nil, err
	}
	return &metadata{
		Name:         strings.TrimSpace(hdr.Get("Name")),
		Version:      strings.TrimSpace(hdr.Get("Version")),
		RequiresDist: hdr.Values("Requires-Dist"),
	}, nil
}

// readRequiresTxt converts an egg-info requires.txt into marker-qualified
// requirement strings. Section headers take the forms [extra], [:marker]
// and [extra:marker].
func readRequiresTxt(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var (
		out    []string
		marker string
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			marker = sectionMarker(line[1 : len(line)-1])
			continue
		}
		if marker != "" {
			line += "; " + marker
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}

func sectionMarker(section string) string {
	extra, env, _ := strings.Cut(section, ":")
	extra = strings.TrimSpace(extra)
	env = strings.TrimSpace(env)
	switch {
	case extra != "" && env != "":
		return "(" + env + `) and extra == "` + extra + `"`
	case extra != "":
		return `extra == "` + extra + `"`
	default:
		return env
	}
}

// directURL is the subset of PEP 610 direct_url.json we read.
type directURL struct {
	URL     string `json:"url"`
	DirInfo struct {
		Editable bool `json:"editable"`
	} `json:"dir_info"`
}

// editableLocation returns the project directory recorded in a dist-info's
// direct_url.json, or "" when the distribution is not an editable install.
func editableLocation(distInfo string) string {
	data, err := os.ReadFile(filepath.Join(distInfo, "direct_url.json"))
	if err != nil {
		return ""
	}
	var du directURL
	if err := json.Unmarshal(data, &du); err != nil || !du.DirInfo.Editable {
		return ""
	}
	u, err := url.Parse(du.URL)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}

// loadDistInfo reads a *.dist-info directory.
func loadDistInfo(dir string) (*deps.Distribution, error) {
	md, err := readMetadata(filepath.Join(dir, "METADATA"))
	if err != nil {
		return nil, err
	}
	d := newRecord(md, md.RequiresDist)
	d.Location = editableLocation(dir)
	return d, nil
}

// loadEggInfo reads a *.egg-info directory or a bare PKG-INFO style
// *.egg-info file.
func loadEggInfo(path string) (*deps.Distribution, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		md, err := readMetadata(path)
		if err != nil {
			return nil, err
		}
		return newRecord(md, md.RequiresDist), nil
	}

	md, err := readMetadata(filepath.Join(path, "PKG-INFO"))
	if err != nil {
		return nil, err
	}
	requires, err := readRequiresTxt(filepath.Join(path, "requires.txt"))
	if err != nil {
		return nil, err
	}
	if len(requires) == 0 {
		requires = md.RequiresDist
	}
	return newRecord(md, requires), nil
}

func newRecord(md *metadata, requires []string) *deps.Distribution {
	return &deps.Distribution{
		Name:     requirement.Canonicalize(md.Name),
		Display:  md.Name,
		Version:  md.Version,
		Requires: requires,
	}
}

// metadataDirName guesses the distribution name from a metadata directory
// name such as "Foo_Bar-1.0.dist-info", for records without a Name header.
func metadataDirName(base string) string {
	base = strings.TrimSuffix(strings.TrimSuffix(base, ".dist-info"), ".egg-info")
	name, _, _ := strings.Cut(base, "-")
	return name
}
