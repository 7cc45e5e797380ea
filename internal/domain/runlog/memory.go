package runlog

import (
	"context"
	"strings"
	"sync"

	"github.com/relaykit/relay/pkg/corrid"
)

// MemoryStore is an in-memory Store for tests and embedders that do not
// want SQLite. Appends are mutex-serialized; records are returned newest
// first like the SQLite store.
type MemoryStore struct {
	mu      sync.Mutex
	records []*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores a copy of rec so later caller mutations cannot reach
// the persisted record.
func (s *MemoryStore) Append(_ context.Context, rec *Record) error {
	cp := *rec
	if cp.ID == "" {
		cp.ID = corrid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, &cp)
	return nil
}

// Query filters the stored records, newest first.
func (s *MemoryStore) Query(_ context.Context, f Filters) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if f.Tool != "" && rec.Tool != f.Tool {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.CorrelationID != "" &&
			rec.CorrelationID != f.CorrelationID &&
			!strings.HasPrefix(rec.CorrelationID, f.CorrelationID+":") {
			continue
		}
		matched = append(matched, rec)
	}

	offset := max(f.Offset, 0)
	if offset >= len(matched) {
		return []*Record{}, nil
	}
	matched = matched[offset:]

	limit := clampLimit(f.Limit)
	if limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*Record, len(matched))
	for i, rec := range matched {
		cp := *rec
		out[i] = &cp
	}
	return out, nil
}

// Len reports the number of appended records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

var _ Store = (*MemoryStore)(nil)
