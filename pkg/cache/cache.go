// Package cache stores opaque byte blobs with a time-to-live.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing
//
// Keys are built by a [Keyer] so that HTTP responses and freeze results
// never collide, and so that tenants can be isolated with [NewScopedKeyer].
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-blob store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	TTLHTTP   = 24 * time.Hour // Registry API responses
	TTLFreeze = time.Hour      // Complete freeze results
)

// DefaultDir returns the per-user cache directory for the CLI.
func DefaultDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "requirements"), nil
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key for a registry API response.
	HTTPKey(namespace, key string) string
	// FreezeKey is the key for a complete freeze result.
	FreezeKey(opts FreezeKeyOpts) string
}

// FreezeKeyOpts are the inputs that determine a freeze result.
type FreezeKeyOpts struct {
	Registry         string   `json:"registry"`
	Requirements     []string `json:"requirements"`
	Exclude          []string `json:"exclude,omitempty"`
	ExcludeRecursive []string `json:"exclude_recursive,omitempty"`
	NoVersion        []string `json:"no_version,omitempty"`
	MaxDepth         int      `json:"max_depth"`
	Order            string   `json:"order"`
	Reverse          bool     `json:"reverse,omitempty"`
	Environment      string   `json:"environment,omitempty"`
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey implements [Keyer].
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// FreezeKey implements [Keyer].
func (DefaultKeyer) FreezeKey(opts FreezeKeyOpts) string {
	return hashKey("freeze", opts)
}
