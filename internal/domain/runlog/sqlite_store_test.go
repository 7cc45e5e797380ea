package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/relaykit/relay/internal/infra/sqlite"
)

func openLogTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("sqlite.NewDB failed: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("sqlite.MigrateUp failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func successRecord(tool, corrID string) *Record {
	out := `{"ok":true}`
	return &Record{
		CorrelationID: corrID,
		Tool:          tool,
		Status:        StatusSuccess,
		StartedAt:     time.Now().UTC(),
		DurationMs:    12,
		InputSummary:  `{"n":"1"}`,
		OutputSummary: &out,
	}
}

func errorRecord(tool, corrID string) *Record {
	kind := "ExecutionFault"
	msg := "boom"
	return &Record{
		CorrelationID: corrID,
		Tool:          tool,
		Status:        StatusError,
		StartedAt:     time.Now().UTC(),
		DurationMs:    3,
		InputSummary:  `{"n":"1"}`,
		ErrorKind:     &kind,
		ErrorMessage:  &msg,
	}
}

func TestSQLiteStore_AppendAndQuery(t *testing.T) {
	t.Parallel()

	store := NewSQLiteStore(openLogTestDB(t))
	ctx := context.Background()

	if err := store.Append(ctx, successRecord("double", "corr-1")); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := store.Append(ctx, errorRecord("double", "corr-2")); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	recs, err := store.Query(ctx, Filters{Tool: "double"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.ID == "" {
			t.Fatal("expected store to assign record ids")
		}
	}
}

func TestSQLiteStore_QueryByStatus(t *testing.T) {
	t.Parallel()

	store := NewSQLiteStore(openLogTestDB(t))
	ctx := context.Background()

	if err := store.Append(ctx, successRecord("double", "corr-1")); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := store.Append(ctx, errorRecord("double", "corr-2")); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	recs, err := store.Query(ctx, Filters{Status: StatusError})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 error record, got %d", len(recs))
	}
	if recs[0].ErrorKind == nil || *recs[0].ErrorKind != "ExecutionFault" {
		t.Fatalf("expected ExecutionFault kind, got %v", recs[0].ErrorKind)
	}
	if recs[0].OutputSummary != nil {
		t.Fatal("error record must not carry an output summary")
	}
}

func TestSQLiteStore_QueryByCorrelation_IncludesChildren(t *testing.T) {
	t.Parallel()

	store := NewSQLiteStore(openLogTestDB(t))
	ctx := context.Background()

	for _, corrID := range []string{"root-1", "root-1:0", "root-1:1", "root-2"} {
		if err := store.Append(ctx, successRecord("double", corrID)); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	recs, err := store.Query(ctx, Filters{CorrelationID: "root-1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected root + 2 children, got %d records", len(recs))
	}
}

func TestSQLiteStore_QueryLimitOffset(t *testing.T) {
	t.Parallel()

	store := NewSQLiteStore(openLogTestDB(t))
	ctx := context.Background()

	for i := range 5 {
		rec := successRecord("double", fmt.Sprintf("corr-%d", i))
		rec.StartedAt = time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC)
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	recs, err := store.Query(ctx, Filters{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// Newest first: offset 1 skips corr-4.
	if recs[0].CorrelationID != "corr-3" || recs[1].CorrelationID != "corr-2" {
		t.Fatalf("unexpected page: %s, %s", recs[0].CorrelationID, recs[1].CorrelationID)
	}
}

func TestSQLiteStore_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	db := openLogTestDB(t)
	db.SetMaxOpenConns(4)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Append(ctx, successRecord("double", fmt.Sprintf("corr-%d", i)))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Append returned error: %v", err)
		}
	}

	recs, err := store.Query(ctx, Filters{Tool: "double", Limit: writers})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(recs) != writers {
		t.Fatalf("expected %d records, got %d", writers, len(recs))
	}
}
