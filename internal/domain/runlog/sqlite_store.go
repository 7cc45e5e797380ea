package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/relaykit/relay/pkg/corrid"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// SQLiteStore persists invocation records in the invocation_log table.
// SQLite in WAL mode serializes writers internally, so concurrent
// appends from fan-out goroutines need no extra locking here.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store on an already-migrated database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append inserts one finalized record. A missing ID is filled with a
// fresh UUID v7 so inserts stay time-ordered in the primary index.
func (s *SQLiteStore) Append(ctx context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("runlog: append nil record")
	}
	if rec.ID == "" {
		rec.ID = corrid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocation_log (
			id, correlation_id, tool, status, started_at,
			duration_ms, input_summary, output_summary, error_kind, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.CorrelationID,
		rec.Tool,
		string(rec.Status),
		rec.StartedAt.UTC(),
		rec.DurationMs,
		rec.InputSummary,
		rec.OutputSummary,
		rec.ErrorKind,
		rec.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("runlog: append: %w", err)
	}
	return nil
}

// Query returns records matching f, newest first.
func (s *SQLiteStore) Query(ctx context.Context, f Filters) ([]*Record, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, correlation_id, tool, status, started_at,
		       duration_ms, input_summary, output_summary, error_kind, error_message
		FROM invocation_log
		WHERE 1=1
	`)
	args := make([]any, 0, 6)

	if f.Tool != "" {
		query.WriteString(" AND tool = ?")
		args = append(args, f.Tool)
	}
	if f.Status != "" {
		query.WriteString(" AND status = ?")
		args = append(args, string(f.Status))
	}
	if f.CorrelationID != "" {
		// Match the id itself and any fan-out children derived from it.
		query.WriteString(" AND (correlation_id = ? OR correlation_id LIKE ?)")
		args = append(args, f.CorrelationID, f.CorrelationID+":%")
	}

	query.WriteString(" ORDER BY started_at DESC, id DESC LIMIT ? OFFSET ?")
	args = append(args, clampLimit(f.Limit), max(f.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("runlog: query: %w", err)
	}
	defer rows.Close()

	out := make([]*Record, 0)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("runlog: scan: %w", scanErr)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runlog: rows: %w", err)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultQueryLimit
	}
	if limit > maxQueryLimit {
		return maxQueryLimit
	}
	return limit
}

type recordScanner interface {
	Scan(dest ...any) error
}

func scanRecord(scan recordScanner) (*Record, error) {
	var (
		rec        Record
		statusRaw  string
		outputRaw  sql.NullString
		kindRaw    sql.NullString
		messageRaw sql.NullString
	)

	if err := scan.Scan(
		&rec.ID,
		&rec.CorrelationID,
		&rec.Tool,
		&statusRaw,
		&rec.StartedAt,
		&rec.DurationMs,
		&rec.InputSummary,
		&outputRaw,
		&kindRaw,
		&messageRaw,
	); err != nil {
		return nil, err
	}

	rec.Status = Status(statusRaw)
	if outputRaw.Valid {
		v := outputRaw.String
		rec.OutputSummary = &v
	}
	if kindRaw.Valid {
		v := kindRaw.String
		rec.ErrorKind = &v
	}
	if messageRaw.Valid {
		v := messageRaw.String
		rec.ErrorMessage = &v
	}
	return &rec, nil
}

var _ Store = (*SQLiteStore)(nil)
