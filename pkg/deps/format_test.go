package deps

import (
	"context"
	stderrors "errors"
	"slices"
	"testing"

	"github.com/enorganic/requirements/pkg/errors"
)

func TestFormatter_Format(t *testing.T) {
	reg := NewMemoryRegistry(
		NewDistribution("foo-bar", "1.0.0"),
		NewDistribution("baz", "2.0.0"),
		NewDistribution("importlib-metadata", "7.0.0"),
		NewDistribution("Flask", "3.0.2"),
	)

	tests := []struct {
		name      string
		noVersion []string
		names     []string
		want      []string
	}{
		{
			name:      "glob leaves matches unpinned",
			noVersion: []string{"foo-*"},
			names:     []string{"foo-bar", "baz"},
			want:      []string{"foo-bar", "baz==2.0.0"},
		},
		{
			name:  "never-pin set",
			names: []string{"importlib-metadata", "importlib-resources"},
			want:  []string{"importlib-metadata", "importlib-resources"},
		},
		{
			name:  "canonical names are used",
			names: []string{"flask"},
			want:  []string{"flask==3.0.2"},
		},
		{
			name:      "patterns are case-insensitive",
			noVersion: []string{"BAZ"},
			names:     []string{"baz"},
			want:      []string{"baz"},
		},
		{
			name:      "question mark and class",
			noVersion: []string{"ba?", "[f]lask"},
			names:     []string{"baz", "flask", "foo-bar"},
			want:      []string{"baz", "flask", "foo-bar==1.0.0"},
		},
		{
			name:      "match everything",
			noVersion: []string{"*"},
			names:     []string{"baz", "flask"},
			want:      []string{"baz", "flask"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(reg, tt.noVersion)
			if err != nil {
				t.Fatalf("NewFormatter() error: %v", err)
			}
			got, err := f.Format(context.Background(), tt.names)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Format() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatter_InvalidPattern(t *testing.T) {
	_, err := NewFormatter(NewMemoryRegistry(), []string{"[unclosed"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewFormatter() error = %v, want INVALID_INPUT", err)
	}
}

func TestFormatter_InstallsMissing(t *testing.T) {
	reg := NewMemoryRegistry()
	reg.AddInstallable(NewDistribution("late", "0.1"))

	f, err := NewFormatter(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Line(context.Background(), "late")
	if err != nil {
		t.Fatalf("Line() error: %v", err)
	}
	if got != "late==0.1" {
		t.Errorf("Line() = %q, want late==0.1", got)
	}
	if n := reg.Installs("late"); n != 1 {
		t.Errorf("Installs = %d, want 1", n)
	}
}

func TestFormatter_Unresolved(t *testing.T) {
	reg := NewMemoryRegistry()
	f, err := NewFormatter(reg, nil)
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		_, err = f.Line(context.Background(), "ghost")
		var u *errors.UnresolvedDependencyError
		if !stderrors.As(err, &u) {
			t.Fatalf("Line() error = %v, want *UnresolvedDependencyError", err)
		}
		if u.Name != "ghost" {
			t.Errorf("Name = %q, want ghost", u.Name)
		}
	}
	if n := reg.Installs("ghost"); n != 1 {
		t.Errorf("Installs = %d, want 1", n)
	}
}
