package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// cacheHooks logs response cache traffic at debug level.
type cacheHooks struct {
	logger *log.Logger
}

func (h *cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// httpHooks logs registry API calls at debug level.
type httpHooks struct {
	logger *log.Logger
}

func (h *httpHooks) OnRequest(context.Context, string, string, string) {}

func (h *httpHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *httpHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
