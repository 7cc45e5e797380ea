package runlog

import "context"

// Store is the append-only persistence contract for invocation records.
// Append must be safe for concurrent use: fan-out items share one store
// handle and write from independent goroutines. Query serves reporting
// surfaces only; the pipeline itself never reads back.
type Store interface {
	Append(ctx context.Context, rec *Record) error
	Query(ctx context.Context, f Filters) ([]*Record, error)
}
