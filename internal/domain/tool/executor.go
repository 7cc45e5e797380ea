package tool

import (
	"context"
)

// Executor is the runtime contract for executable tools. Args arrive
// fully coerced to the descriptor's declared types; the result may be
// any JSON-representable value. A returned error (or a panic) is
// normalized by the execution wrapper, never surfaced raw to callers.
//
// Long-running tool bodies should honor ctx cancellation; the pipeline
// awaits every executor the same way regardless of how long it blocks.
type Executor interface {
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, args map[string]any) (any, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, args map[string]any) (any, error) {
	return f(ctx, args)
}
