// Package trace records spans of an nbcheck run so slow notebooks and
// stuck checker invocations can be located.
//
// Enable it from the command line:
//
//	nbcheck --trace=- --trace-level=detail check notebooks/
//
// Levels pick how deep the output goes:
//
//   - off: nothing
//   - error: failures only
//   - phase: run and stage boundaries (convert, check, remap)
//   - detail: one span per notebook
//   - debug: one span per cell
//
// A tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "convert", 0)
//	defer span.End("")
package trace
