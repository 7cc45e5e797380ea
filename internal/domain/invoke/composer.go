package invoke

import (
	"fmt"

	"github.com/relaykit/relay/internal/domain/runlog"
	"github.com/relaykit/relay/internal/domain/tool"
	"github.com/relaykit/relay/internal/infra/eventbus"
)

// pipeline is one tool's composed stage stack, built once when the
// service is constructed and immutable afterward.
type pipeline struct {
	desc    tool.Descriptor
	stages  []Stage
	handler Handler
}

// compose builds the fixed stage order for one registry entry:
//
//	logging → coercion → executor
//
// Logging is outermost so it observes the final envelope whatever stage
// produced it — a coercion rejection is logged as an error record, and
// the store only ever sees normalized outcomes, never native faults.
// Batch capability does not change the per-item stack; fan-out runs one
// instance of this composition per item.
func compose(e tool.Entry, store runlog.Store, bus eventbus.EventBus, summaryLimit int) (*pipeline, error) {
	schema, err := CompileInputSchema(e.Descriptor.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("compose %q: %w", e.Descriptor.Name, err)
	}

	stages := []Stage{
		LoggingStage(store, bus, summaryLimit),
		CoercionStage(schema),
	}

	return &pipeline{
		desc:    e.Descriptor,
		stages:  stages,
		handler: Chain(ExecStage(e.Executor), stages...),
	}, nil
}
