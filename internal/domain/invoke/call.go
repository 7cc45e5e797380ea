package invoke

import (
	"context"

	"github.com/relaykit/relay/internal/domain/tool"
	"github.com/relaykit/relay/pkg/corrid"
)

// Args is the loosely-typed argument map received from the boundary:
// every value arrives as text and is coerced against the tool's
// declared parameter schema before the executor runs.
type Args map[string]string

// Call is the state threaded through one pipeline run. Stages fill it
// in as the call travels down the chain; Coerced stays nil when the
// coercion stage rejected the input.
type Call struct {
	Desc          tool.Descriptor
	CorrelationID corrid.ID
	Raw           Args
	Coerced       map[string]any
}

// Handler runs the remainder of a pipeline for one call.
type Handler func(ctx context.Context, c *Call) Envelope

// Middleware wraps a Handler with one cross-cutting stage.
type Middleware func(Handler) Handler

// Stage is one named step of a composed pipeline. Keeping the stack as
// a data structure (instead of nesting closures ad hoc) makes the
// composition order explicit and independently testable.
type Stage struct {
	Name string
	Wrap Middleware
}

// Chain applies stages to the terminal handler in onion order: the
// first stage is outermost, the last runs closest to the executor.
func Chain(terminal Handler, stages ...Stage) Handler {
	h := terminal
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i].Wrap(h)
	}
	return h
}
