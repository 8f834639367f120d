package python

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/enorganic/requirements/pkg/cache"
	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/integrations/pypi"
	"github.com/enorganic/requirements/pkg/requirement"
)

func indexServer(t *testing.T, projects map[string][]string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		for name, requires := range projects {
			if r.URL.Path == "/"+requirement.Canonicalize(name)+"/json" {
				json.NewEncoder(w).Encode(map[string]any{
					"info": map[string]any{"name": name, "version": "1.0", "requires_dist": requires},
				})
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPyPIRegistry(t *testing.T) {
	var hits atomic.Int32
	server := indexServer(t, map[string][]string{
		"Flask":      {"Werkzeug>=3", "click>=8", `asgiref>=3.2; extra == "async"`, `colorama; platform_system == "Windows"`},
		"Werkzeug":   {"MarkupSafe>=2.1.1"},
		"click":      nil,
		"MarkupSafe": nil,
	}, &hits)

	env := requirement.DefaultEnvironment()
	env[requirement.VarPlatformSystem] = "Linux"
	reg := NewPyPIRegistry(pypi.NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL), env)

	c, err := deps.Collect(context.Background(), reg, []requirement.Requirement{requirement.MustParse("flask")}, deps.Options{MaxDepth: deps.Unbounded})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if want := []string{"werkzeug", "click", "markupsafe"}; !slices.Equal(c.Names, want) {
		t.Errorf("Names = %v, want %v", c.Names, want)
	}

	before := hits.Load()
	if _, err := reg.Resolve(context.Background(), "Flask"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != before {
		t.Error("Resolve should be memoized")
	}
	reg.Invalidate()
	if _, err := reg.Resolve(context.Background(), "flask"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != before+1 {
		t.Error("Invalidate should drop the memo")
	}
}

func TestPyPIRegistry_Missing(t *testing.T) {
	var hits atomic.Int32
	server := indexServer(t, map[string][]string{"app": {"ghost"}}, &hits)
	reg := NewPyPIRegistry(pypi.NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL), nil)

	_, err := deps.Collect(context.Background(), reg, []requirement.Requirement{requirement.MustParse("app")}, deps.Options{MaxDepth: deps.Unbounded})
	if !errors.Is(err, errors.ErrCodeUnresolvedDependency) {
		t.Fatalf("Collect() error = %v, want UNRESOLVED_DEPENDENCY", err)
	}

	if _, err := reg.EnsureAvailable(context.Background(), "ghost"); !errors.Is(err, errors.ErrCodeInstallFailed) {
		t.Errorf("EnsureAvailable() error = %v, want INSTALL_FAILED", err)
	}
}
