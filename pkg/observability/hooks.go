// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about takeoff runs, cache operations, document store calls,
// and message publishing.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the engine packages
// stay free of any metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTakeoffHooks(&myTakeoffHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Takeoff().OnTakeoffStart(ctx, model, len(elements))
//	// ... apportion elements ...
//	observability.Takeoff().OnTakeoffComplete(ctx, model, completed, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Takeoff Hooks
// =============================================================================

// TakeoffHooks receives events from the takeoff pipeline.
type TakeoffHooks interface {
	// OnTakeoffStart records the start of a run over elements selected elements.
	OnTakeoffStart(ctx context.Context, model string, elements int)

	// OnTakeoffComplete records the end of a run. completed counts the
	// elements that finished before any timeout.
	OnTakeoffComplete(ctx context.Context, model string, completed int, duration time.Duration, err error)

	// OnVolumeCache reports the per-model volume memo statistics of a run.
	OnVolumeCache(ctx context.Context, model string, hits, misses int)
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
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store backends.
type StoreHooks interface {
	// OnStoreOp records one store call. backend is "mongo" or "sqlite".
	OnStoreOp(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// =============================================================================
// Publish Hooks
// =============================================================================

// PublishHooks receives events from message publishers.
type PublishHooks interface {
	// OnPublish records one published message.
	OnPublish(ctx context.Context, topic string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTakeoffHooks is a no-op implementation of TakeoffHooks.
type NoopTakeoffHooks struct{}

func (NoopTakeoffHooks) OnTakeoffStart(context.Context, string, int) {}
func (NoopTakeoffHooks) OnTakeoffComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopTakeoffHooks) OnVolumeCache(context.Context, string, int, int) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, time.Duration, error) {}

// NoopPublishHooks is a no-op implementation of PublishHooks.
type NoopPublishHooks struct{}

func (NoopPublishHooks) OnPublish(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	takeoffHooks TakeoffHooks = NoopTakeoffHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	publishHooks PublishHooks = NoopPublishHooks{}
	hooksMu      sync.RWMutex
)

// SetTakeoffHooks registers custom takeoff hooks.
// This should be called once at application startup before any takeoff runs.
func SetTakeoffHooks(h TakeoffHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		takeoffHooks = h
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

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetPublishHooks registers custom publish hooks.
func SetPublishHooks(h PublishHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		publishHooks = h
	}
}

// Takeoff returns the registered takeoff hooks.
func Takeoff() TakeoffHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return takeoffHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Publish returns the registered publish hooks.
func Publish() PublishHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return publishHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	takeoffHooks = NoopTakeoffHooks{}
	cacheHooks = NoopCacheHooks{}
	storeHooks = NoopStoreHooks{}
	publishHooks = NoopPublishHooks{}
}
