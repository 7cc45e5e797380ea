// Package runlog is the persistent invocation log: one append-only
// record per tool call, written by the logging stage and queried by
// external reporting surfaces. Records are immutable once appended; the
// store contract has no update or delete path.
package runlog

import (
	"time"
)

// Status is the lifecycle state of an invocation record.
type Status string

const (
	// StatusPending exists only in memory between call start and call
	// end; the store never sees it.
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Record is a single invocation log entry. The logging stage creates it
// at call start with StatusPending, finalizes it at call end, and
// appends the finalized copy exactly once.
type Record struct {
	ID            string    `json:"id"`
	CorrelationID string    `json:"correlation_id"`
	Tool          string    `json:"tool"`
	Status        Status    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	DurationMs    int64     `json:"duration_ms"`
	InputSummary  string    `json:"input_summary"`
	OutputSummary *string   `json:"output_summary,omitempty"`
	ErrorKind     *string   `json:"error_kind,omitempty"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
}

// Filters narrows a Query. Zero-valued fields are ignored.
type Filters struct {
	Tool string
	// Status filters on the finalized status (success or error).
	Status Status
	// CorrelationID matches records whose correlation id equals the
	// value or is a child of it (prefix match on "id:").
	CorrelationID string
	Limit         int
	Offset        int
}
