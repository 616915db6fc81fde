package engine

import "time"

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the event source the loop polls, normally a window.Window.
//
// Parameters:
//   - w: the event source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w EventSource) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithContext sets the loop context.
//
// Parameters:
//   - ctx: the context, owned by the engine from here on
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithContext(ctx *Context) EngineBuilderOption {
	return func(e *engine) {
		e.ctx = ctx
	}
}

// WithClock replaces the monotonic frame clock, which defaults to hrtime.Now.
func WithClock(now func() time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}
