package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Freeze hooks
	f := NoopFreezeHooks{}
	f.OnCollectStart(ctx, 3)
	f.OnCollectComplete(ctx, 42, time.Second, nil)
	f.OnInstallStart(ctx, "requests")
	f.OnInstallComplete(ctx, "requests", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "pypi")
	c.OnCacheMiss(ctx, "pypi")
	c.OnCacheSet(ctx, "pypi", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "pypi.org", "/pypi/requests/json")
	h.OnResponse(ctx, "GET", "pypi.org", "/pypi/requests/json", 200, time.Second)
	h.OnError(ctx, "GET", "pypi.org", "/pypi/requests/json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Freeze().(NoopFreezeHooks); !ok {
		t.Error("Freeze() should return NoopFreezeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customFreeze := &testFreezeHooks{}
	SetFreezeHooks(customFreeze)
	if Freeze() != customFreeze {
		t.Error("SetFreezeHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Freeze().(NoopFreezeHooks); !ok {
		t.Error("Reset() should restore NoopFreezeHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testFreezeHooks{}
	SetFreezeHooks(custom)

	// Setting nil should be ignored
	SetFreezeHooks(nil)

	if Freeze() != custom {
		t.Error("SetFreezeHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testFreezeHooks struct{ NoopFreezeHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
