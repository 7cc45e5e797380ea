package invoke

import (
	"context"
	"fmt"

	"github.com/relaykit/relay/internal/domain/runlog"
	"github.com/relaykit/relay/internal/domain/tool"
	"github.com/relaykit/relay/internal/infra/eventbus"
	"github.com/relaykit/relay/pkg/corrid"
)

// Service is the composed entry point over a registry: one pipeline per
// tool, built at construction. The registry must be fully populated
// before New; the service never observes later mutations.
type Service struct {
	pipelines    map[string]*pipeline
	maxInFlight  int
	summaryLimit int
}

type options struct {
	bus          eventbus.EventBus
	maxInFlight  int
	summaryLimit int
}

// Option configures a Service.
type Option func(*options)

// WithEventBus sets the bus receiving invocation lifecycle events and
// log-store failure notices.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithMaxInFlight bounds concurrent fan-out items. Pass 0 or negative
// to disable the bound.
func WithMaxInFlight(n int) Option {
	return func(o *options) { o.maxInFlight = n }
}

// WithSummaryLimit bounds serialized input/output summaries in bytes.
func WithSummaryLimit(n int) Option {
	return func(o *options) { o.summaryLimit = n }
}

// New composes one pipeline per registered tool. store may be nil to
// disable persistence (useful for embedding); a nil store still leaves
// every other pipeline guarantee intact.
func New(reg *tool.Registry, store runlog.Store, opts ...Option) (*Service, error) {
	o := options{
		maxInFlight:  DefaultMaxInFlight,
		summaryLimit: DefaultSummaryLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}

	pipelines := make(map[string]*pipeline)
	for _, e := range reg.All() {
		p, err := compose(e, store, o.bus, o.summaryLimit)
		if err != nil {
			return nil, err
		}
		pipelines[e.Descriptor.Name] = p
	}

	return &Service{
		pipelines:    pipelines,
		maxInFlight:  o.maxInFlight,
		summaryLimit: o.summaryLimit,
	}, nil
}

// Invoke runs one tool call through its composed pipeline. The returned
// envelope is always well-formed; an unknown tool is reported without
// touching the log store's write path.
func (s *Service) Invoke(ctx context.Context, name string, args Args) Envelope {
	p, ok := s.pipelines[name]
	if !ok {
		return Errf(KindUnknownTool, "tool %q is not registered", name)
	}

	ctx, id := corrid.EnsureContext(ctx)
	return p.handler(ctx, &Call{
		Desc:          p.desc,
		CorrelationID: id,
		Raw:           args,
	})
}

// InvokeBatch fans one batch-capable tool out over items. Batch-level
// failures (unknown tool, not batch capable, malformed batch shape) are
// reported as a single Fault and a nil result; otherwise the result is
// index-aligned with items and the fault is nil — there is no partial
// batch outcome at this boundary.
func (s *Service) InvokeBatch(ctx context.Context, name string, items []Args) (BatchResult, *Fault) {
	p, ok := s.pipelines[name]
	if !ok {
		return nil, &Fault{Kind: KindUnknownTool, Message: fmt.Sprintf("tool %q is not registered", name)}
	}
	if !p.desc.BatchCapable {
		return nil, &Fault{Kind: KindNotBatchCapable, Message: fmt.Sprintf("tool %q does not accept batch invocations", name)}
	}
	if fault := validateBatchShape(items); fault != nil {
		return nil, fault
	}

	ctx, id := corrid.EnsureContext(ctx)
	return fanOut(ctx, id, p.desc, items, p.handler, s.maxInFlight), nil
}
