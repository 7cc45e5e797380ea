package invoke

import (
	"context"
	"encoding/json"
	"time"

	"github.com/relaykit/relay/internal/domain/runlog"
	"github.com/relaykit/relay/internal/infra/eventbus"
)

const (
	// DefaultSummaryLimit bounds serialized input/output summaries.
	DefaultSummaryLimit = 2048

	truncationMark = "…(truncated)"
	unserializable = "<unserializable>"
)

// LoggingStage brackets the inner stages with an invocation record: a
// pending record is created on entry, finalized with duration and
// outcome on exit, and appended to the store exactly once. The stage is
// strictly observational — a store failure is published to the bus and
// the envelope is returned untouched.
func LoggingStage(store runlog.Store, bus eventbus.EventBus, summaryLimit int) Stage {
	if summaryLimit <= 0 {
		summaryLimit = DefaultSummaryLimit
	}
	return Stage{
		Name: "logging",
		Wrap: func(next Handler) Handler {
			return func(ctx context.Context, c *Call) Envelope {
				rec := &runlog.Record{
					CorrelationID: c.CorrelationID.String(),
					Tool:          c.Desc.Name,
					Status:        runlog.StatusPending,
					StartedAt:     time.Now().UTC(),
				}

				env := next(ctx, c)

				rec.DurationMs = time.Since(rec.StartedAt).Milliseconds()
				rec.InputSummary = inputSummary(c, summaryLimit)
				if env.OK() {
					rec.Status = runlog.StatusSuccess
					out := summarize(env.Value, summaryLimit)
					rec.OutputSummary = &out
				} else {
					rec.Status = runlog.StatusError
					kind := string(env.Fault.Kind)
					msg := env.Fault.Message
					rec.ErrorKind = &kind
					rec.ErrorMessage = &msg
				}

				persist(ctx, store, bus, rec)
				return env
			}
		},
	}
}

// persist appends the finalized record, best effort. The append runs
// even when the invocation's context was cancelled: a cancelled item
// still deserves its log row.
func persist(ctx context.Context, store runlog.Store, bus eventbus.EventBus, rec *runlog.Record) {
	if store == nil {
		return
	}
	if err := store.Append(context.WithoutCancel(ctx), rec); err != nil {
		if bus != nil {
			bus.Publish(eventbus.TopicAppendFailed, err)
		}
		return
	}
	if bus != nil {
		bus.Publish(eventbus.TopicInvocationCompleted, rec)
	}
}

// inputSummary serializes the post-coercion arguments when coercion
// succeeded, else the raw map, so coercion failures are still logged
// with the input that caused them.
func inputSummary(c *Call, limit int) string {
	if c.Coerced != nil {
		return summarize(c.Coerced, limit)
	}
	return summarize(c.Raw, limit)
}

// summarize renders v as size-bounded JSON. Serialization problems
// produce a placeholder, never an error: logging must not be able to
// fail an invocation.
func summarize(v any, limit int) string {
	data, err := json.Marshal(v)
	if err != nil {
		return unserializable
	}
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + truncationMark
}
