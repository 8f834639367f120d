package cli

import (
	"io"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/enorganic/requirements/internal/config"
)

func TestCacheDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME applies on Linux")
	}
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	expected := filepath.Join("/tmp/custom-cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	want := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Cache.Dir = want

	c := New(io.Discard, LogInfo)
	c.loaded = &config.Loaded{Config: cfg}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCache(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Dir = t.TempDir()
	c := New(io.Discard, LogInfo)
	c.loaded = &config.Loaded{Config: cfg}

	backend, err := c.newCache(t.Context(), false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	defer backend.Close()

	if err := backend.Set(t.Context(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, ok, err := backend.Get(t.Context(), "k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
}

func TestNewCache_BadRedisURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Redis = "not a url"
	c := New(io.Discard, LogInfo)
	c.loaded = &config.Loaded{Config: cfg}

	if _, err := c.newCache(t.Context(), false); err == nil {
		t.Error("newCache() should reject an invalid redis URL")
	}
}
