// Package observability lets a program observe freezes, cache traffic and
// registry HTTP calls without the libraries depending on a metrics or
// tracing backend.
//
// Each event category has an interface with a no-op default. The program
// registers its implementations once at startup:
//
//	observability.SetFreezeHooks(&freezeLogger{})
//	observability.SetHTTPHooks(&httpLogger{})
//
// and library code emits events through the accessors:
//
//	observability.Freeze().OnInstallStart(ctx, "requests")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Freeze Hooks
// =============================================================================

// FreezeHooks receives events from closure collection and on-demand installs.
type FreezeHooks interface {
	// Collect events
	OnCollectStart(ctx context.Context, roots int)
	OnCollectComplete(ctx context.Context, names int, duration time.Duration, err error)

	// Install events (one per missing distribution)
	OnInstallStart(ctx context.Context, name string)
	OnInstallComplete(ctx context.Context, name string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFreezeHooks is a no-op implementation of FreezeHooks.
type NoopFreezeHooks struct{}

func (NoopFreezeHooks) OnCollectStart(context.Context, int)                             {}
func (NoopFreezeHooks) OnCollectComplete(context.Context, int, time.Duration, error)    {}
func (NoopFreezeHooks) OnInstallStart(context.Context, string)                          {}
func (NoopFreezeHooks) OnInstallComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	freezeHooks FreezeHooks = NoopFreezeHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetFreezeHooks registers custom freeze hooks.
// This should be called once at application startup before any freeze runs.
func SetFreezeHooks(h FreezeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		freezeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Freeze returns the registered freeze hooks.
func Freeze() FreezeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return freezeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	freezeHooks = NoopFreezeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
