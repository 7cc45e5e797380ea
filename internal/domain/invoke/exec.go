package invoke

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/relaykit/relay/internal/domain/tool"
)

// ExecStage is the terminal handler: it invokes the executor exactly
// once and converts every possible failure mode — returned error,
// panic, context cancellation — into a fault envelope. This is the one
// boundary where uncaught faults are guaranteed to be intercepted; a
// tool body can do anything and the surrounding process stays intact.
func ExecStage(ex tool.Executor) Handler {
	return func(ctx context.Context, c *Call) (env Envelope) {
		defer func() {
			if p := recover(); p != nil {
				env = errDetail(
					KindExecutionFault,
					fmt.Sprintf("panic: %v", p),
					string(debug.Stack()),
				)
			}
		}()

		// A call that was cancelled before dispatch still yields a
		// well-formed envelope instead of reaching the tool body.
		if err := ctx.Err(); err != nil {
			return Errf(KindCancelled, "invocation cancelled: %v", err)
		}

		v, err := ex.Execute(ctx, c.Coerced)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Errf(KindCancelled, "invocation cancelled: %v", err)
			}
			return Err(KindExecutionFault, err.Error())
		}
		return Ok(v)
	}
}
