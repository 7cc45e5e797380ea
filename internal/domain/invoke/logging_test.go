package invoke

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/relaykit/relay/internal/domain/runlog"
	"github.com/relaykit/relay/internal/domain/tool"
	"github.com/relaykit/relay/internal/infra/eventbus"
	"github.com/relaykit/relay/pkg/corrid"
)

// failingStore simulates an unavailable log store.
type failingStore struct{}

func (failingStore) Append(_ context.Context, _ *runlog.Record) error {
	return errors.New("store unavailable")
}

func (failingStore) Query(_ context.Context, _ runlog.Filters) ([]*runlog.Record, error) {
	return nil, errors.New("store unavailable")
}

func loggingCall() *Call {
	return &Call{
		Desc:          tool.Descriptor{Name: "double"},
		CorrelationID: corrid.ID("corr-1"),
		Raw:           Args{"n": "21"},
	}
}

func TestLoggingStage_SuccessRecord(t *testing.T) {
	t.Parallel()

	store := runlog.NewMemoryStore()
	stage := LoggingStage(store, nil, 0)

	h := stage.Wrap(func(_ context.Context, c *Call) Envelope {
		c.Coerced = map[string]any{"n": int64(21)}
		return Ok(int64(42))
	})

	env := h(context.Background(), loggingCall())
	if !env.OK() {
		t.Fatalf("expected success envelope, got %+v", env.Fault)
	}

	recs, err := store.Query(context.Background(), runlog.Filters{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}

	rec := recs[0]
	if rec.Status != runlog.StatusSuccess {
		t.Fatalf("status = %s, want success", rec.Status)
	}
	if rec.Tool != "double" || rec.CorrelationID != "corr-1" {
		t.Fatalf("unexpected record identity: %+v", rec)
	}
	if rec.DurationMs < 0 {
		t.Fatalf("duration must be non-negative, got %d", rec.DurationMs)
	}
	// Coercion succeeded, so the summary reflects the typed arguments.
	if rec.InputSummary != `{"n":21}` {
		t.Fatalf("input summary = %q", rec.InputSummary)
	}
	if rec.OutputSummary == nil || *rec.OutputSummary != "42" {
		t.Fatalf("output summary = %v", rec.OutputSummary)
	}
	if rec.ErrorKind != nil || rec.ErrorMessage != nil {
		t.Fatal("success record must not carry error fields")
	}
}

func TestLoggingStage_ErrorRecord(t *testing.T) {
	t.Parallel()

	store := runlog.NewMemoryStore()
	stage := LoggingStage(store, nil, 0)

	h := stage.Wrap(func(_ context.Context, _ *Call) Envelope {
		return Err(KindInvalidArgument, `"abc" is not an integer`)
	})

	env := h(context.Background(), loggingCall())
	if env.OK() {
		t.Fatal("expected fault envelope")
	}

	recs, _ := store.Query(context.Background(), runlog.Filters{})
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}

	rec := recs[0]
	if rec.Status != runlog.StatusError {
		t.Fatalf("status = %s, want error", rec.Status)
	}
	if rec.ErrorKind == nil || *rec.ErrorKind != string(KindInvalidArgument) {
		t.Fatalf("error kind = %v", rec.ErrorKind)
	}
	if rec.OutputSummary != nil {
		t.Fatal("error record must not carry an output summary")
	}
	// Coercion never ran, so the raw input is what gets logged.
	if rec.InputSummary != `{"n":"21"}` {
		t.Fatalf("input summary = %q", rec.InputSummary)
	}
}

func TestLoggingStage_StoreFailureDoesNotChangeOutcome(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	failures := bus.Subscribe(eventbus.TopicAppendFailed)
	stage := LoggingStage(failingStore{}, bus, 0)

	h := stage.Wrap(func(_ context.Context, _ *Call) Envelope {
		return Ok("fine")
	})

	env := h(context.Background(), loggingCall())
	if !env.OK() || env.Value != "fine" {
		t.Fatalf("store failure altered the envelope: %+v", env)
	}

	select {
	case evt := <-failures:
		if _, ok := evt.Payload.(error); !ok {
			t.Fatalf("expected error payload, got %T", evt.Payload)
		}
	default:
		t.Fatal("expected append failure to be published to the bus")
	}
}

func TestLoggingStage_CompletedEventPublished(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	completed := bus.Subscribe(eventbus.TopicInvocationCompleted)
	stage := LoggingStage(runlog.NewMemoryStore(), bus, 0)

	h := stage.Wrap(func(_ context.Context, _ *Call) Envelope {
		return Ok(1)
	})
	h(context.Background(), loggingCall())

	select {
	case evt := <-completed:
		rec, ok := evt.Payload.(*runlog.Record)
		if !ok || rec.Tool != "double" {
			t.Fatalf("unexpected completed payload: %+v", evt.Payload)
		}
	default:
		t.Fatal("expected completion event on the bus")
	}
}

func TestLoggingStage_PersistsDespiteCancelledContext(t *testing.T) {
	t.Parallel()

	store := runlog.NewMemoryStore()
	stage := LoggingStage(store, nil, 0)

	h := stage.Wrap(func(_ context.Context, _ *Call) Envelope {
		return Err(KindCancelled, "invocation cancelled")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h(ctx, loggingCall())

	if store.Len() != 1 {
		t.Fatalf("cancelled invocation must still be logged, got %d records", store.Len())
	}
}

func TestSummarize_Truncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 100)
	sum := summarize(long, 10)
	if !strings.HasSuffix(sum, truncationMark) {
		t.Fatalf("expected truncation marker, got %q", sum)
	}
	if len(sum) != 10+len(truncationMark) {
		t.Fatalf("summary length = %d", len(sum))
	}
}

func TestSummarize_UnserializablePlaceholder(t *testing.T) {
	t.Parallel()

	if got := summarize(func() {}, 100); got != unserializable {
		t.Fatalf("summarize(func) = %q, want placeholder", got)
	}
}
