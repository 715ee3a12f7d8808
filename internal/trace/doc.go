// Package trace provides a tracing subsystem for the mojwgsl shader pipeline.
//
// The trace package records batch phases, per-file work and import expansion
// to help diagnose slow conversions and unexpected import graphs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	mojwgsl convert --trace=- --trace-level=detail
//
// # Architecture
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failures
//   - LevelPhase: batch and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything including individual imports
//
// # Scopes
//
//   - ScopeBatch: top-level CLI operations
//   - ScopePass: pipeline passes (preprocess, translate, verify, write)
//   - ScopeFile: per-shader processing
//   - ScopeImport: single #moj_import expansion
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "translate", parentID)
//	defer span.End("")
package trace
