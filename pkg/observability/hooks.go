// Package observability provides instrumentation hooks for dispatches, cache
// operations and upstream HTTP calls.
//
// Libraries call the registered hooks; the binary decides what they do. The
// CLI installs logging hooks at debug level, tests install recorders, and
// everything else runs against no-op defaults:
//
//	observability.SetDispatchHooks(&myDispatchHooks{})
//
//	observability.Dispatch().OnDispatchStart(ctx, provider, hub)
//	// ... run the provider ...
//	observability.Dispatch().OnDispatchComplete(ctx, provider, hub, "COMPLETED", duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// DispatchHooks receives events from the suggestion dispatcher.
type DispatchHooks interface {
	// OnDispatchStart is called when a background task is started.
	OnDispatchStart(ctx context.Context, provider, hub string)

	// OnDispatchComplete is called once per dispatch with the terminal state
	// that was delivered ("COMPLETED", "FAILED", "CANCELLED").
	OnDispatchComplete(ctx context.Context, provider, hub, state string, duration time.Duration)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from upstream HTTP calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopDispatchHooks is a no-op implementation of DispatchHooks.
type NoopDispatchHooks struct{}

func (NoopDispatchHooks) OnDispatchStart(context.Context, string, string) {}
func (NoopDispatchHooks) OnDispatchComplete(context.Context, string, string, string, time.Duration) {
}

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

var (
	dispatchHooks DispatchHooks = NoopDispatchHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetDispatchHooks registers dispatch hooks. Nil is ignored.
func SetDispatchHooks(h DispatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dispatchHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Dispatch returns the registered dispatch hooks.
func Dispatch() DispatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dispatchHooks
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
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dispatchHooks = NoopDispatchHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
