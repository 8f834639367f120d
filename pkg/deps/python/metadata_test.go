package python

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestReadMetadata(t *testing.T) {
	path := writeFile(t, t.TempDir(), "METADATA", `Metadata-Version: 2.1
Name: Flask
Version: 3.0.2
Summary: A simple framework
Requires-Dist: Werkzeug>=3.0.0
Requires-Dist: click>=8.1.3
Requires-Dist: asgiref>=3.2 ; extra == "async"

Flask
=====

Requires-Dist: not-a-header
`)

	md, err := readMetadata(path)
	if err != nil {
		t.Fatalf("readMetadata() error: %v", err)
	}
	if md.Name != "Flask" || md.Version != "3.0.2" {
		t.Errorf("got %s %s, want Flask 3.0.2", md.Name, md.Version)
	}
	want := []string{"Werkzeug>=3.0.0", "click>=8.1.3", `asgiref>=3.2 ; extra == "async"`}
	if !slices.Equal(md.RequiresDist, want) {
		t.Errorf("RequiresDist = %q, want %q", md.RequiresDist, want)
	}
}

func TestReadMetadata_NoBody(t *testing.T) {
	path := writeFile(t, t.TempDir(), "PKG-INFO", "Metadata-Version: 1.0\nName: tiny\nVersion: 0.1")
	md, err := readMetadata(path)
	if err != nil {
		t.Fatalf("readMetadata() error: %v", err)
	}
	if md.Name != "tiny" || md.Version != "0.1" {
		t.Errorf("got %+v", md)
	}
}

func TestReadRequiresTxt(t *testing.T) {
	path := writeFile(t, t.TempDir(), "requires.txt", `six
requests>=2

[socks]
PySocks>=1.5.6

[:sys_platform == "win32"]
colorama

[test:python_version < "3.10"]
exceptiongroup
`)

	got, err := readRequiresTxt(path)
	if err != nil {
		t.Fatalf("readRequiresTxt() error: %v", err)
	}
	want := []string{
		"six",
		"requests>=2",
		`PySocks>=1.5.6; extra == "socks"`,
		`colorama; sys_platform == "win32"`,
		`exceptiongroup; (python_version < "3.10") and extra == "test"`,
	}
	if !slices.Equal(got, want) {
		t.Errorf("readRequiresTxt() = %q, want %q", got, want)
	}
}

func TestReadRequiresTxt_Missing(t *testing.T) {
	got, err := readRequiresTxt(filepath.Join(t.TempDir(), "requires.txt"))
	if err != nil || got != nil {
		t.Errorf("readRequiresTxt(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestEditableLocation(t *testing.T) {
	dir := t.TempDir()
	editable := filepath.Join(dir, "demo-0.1.dist-info")
	writeFile(t, editable, "direct_url.json", `{"url": "file:///home/dev/demo", "dir_info": {"editable": true}}`)
	regular := filepath.Join(dir, "wheel-0.1.dist-info")
	writeFile(t, regular, "direct_url.json", `{"url": "file:///tmp/wheel.whl", "archive_info": {}}`)

	if got := editableLocation(editable); got != filepath.FromSlash("/home/dev/demo") {
		t.Errorf("editableLocation(editable) = %q", got)
	}
	if got := editableLocation(regular); got != "" {
		t.Errorf("editableLocation(regular) = %q, want empty", got)
	}
	if got := editableLocation(filepath.Join(dir, "none.dist-info")); got != "" {
		t.Errorf("editableLocation(missing) = %q, want empty", got)
	}
}

func TestMetadataDirName(t *testing.T) {
	tests := map[string]string{
		"Foo_Bar-1.0.dist-info":       "Foo_Bar",
		"zope.interface-6.0.egg-info": "zope.interface",
		"nameonly.egg-info":           "nameonly",
	}
	for in, want := range tests {
		if got := metadataDirName(in); got != want {
			t.Errorf("metadataDirName(%q) = %q, want %q", in, got, want)
		}
	}
}
