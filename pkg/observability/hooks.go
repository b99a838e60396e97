// Package observability provides hooks for instrumenting document
// conversion.
//
// Libraries call the registered hooks; the application decides what, if
// anything, listens. Defaults are no-ops so conversions never depend on an
// observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetConversionHooks(&myConversionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Conversion().OnConvertStart(ctx, name)
//	// ... convert ...
//	observability.Conversion().OnConvertComplete(ctx, name, records, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Conversion Hooks
// =============================================================================

// ConversionHooks receives events for single documents.
type ConversionHooks interface {
	OnConvertStart(ctx context.Context, name string)
	OnConvertComplete(ctx context.Context, name string, records int, duration time.Duration, err error)

	// OnDiagnostic records a resource that was emitted with reduced fidelity.
	OnDiagnostic(ctx context.Context, name, code, resource string)
}

// =============================================================================
// Batch Hooks
// =============================================================================

// BatchHooks receives events for directory conversions.
type BatchHooks interface {
	OnBatchStart(ctx context.Context, dir string, candidates int)
	OnBatchComplete(ctx context.Context, dir string, converted, failed, skipped int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopConversionHooks is a no-op implementation of ConversionHooks.
type NoopConversionHooks struct{}

func (NoopConversionHooks) OnConvertStart(context.Context, string) {}
func (NoopConversionHooks) OnConvertComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopConversionHooks) OnDiagnostic(context.Context, string, string, string) {}

// NoopBatchHooks is a no-op implementation of BatchHooks.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnBatchStart(context.Context, string, int)                             {}
func (NoopBatchHooks) OnBatchComplete(context.Context, string, int, int, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	conversionHooks ConversionHooks = NoopConversionHooks{}
	batchHooks      BatchHooks      = NoopBatchHooks{}
	hooksMu         sync.RWMutex
)

// SetConversionHooks registers custom conversion hooks.
// This should be called once at application startup.
func SetConversionHooks(h ConversionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		conversionHooks = h
	}
}

// SetBatchHooks registers custom batch hooks.
// This should be called once at application startup.
func SetBatchHooks(h BatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		batchHooks = h
	}
}

// Conversion returns the registered conversion hooks.
func Conversion() ConversionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return conversionHooks
}

// Batch returns the registered batch hooks.
func Batch() BatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return batchHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	conversionHooks = NoopConversionHooks{}
	batchHooks = NoopBatchHooks{}
}
