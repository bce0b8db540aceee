// Package trace is the logging layer of the Lumen compiler.
//
// Passes do not print. Instead the driver opens a span per pass and emits
// point events for interesting module-level facts (a module was loaded,
// an import cycle was found). A Tracer decides where they go:
//
//   - Nop: tracing disabled, zero overhead
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory; the CLI spills it to
//     the output only when a command fails (--trace-mode=ring)
//
// Levels: off, error (pass boundaries, buffered in a ring), phase (driver
// + pass boundaries), detail (per module), debug (everything).
//
// Enable tracing from the CLI:
//
//	lumen build --trace=- --trace-level=detail
//
// Tracers travel through the pipeline in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
