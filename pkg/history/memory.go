package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage keeps run records in memory. Records are lost on process
// exit; it backs tests and single-shot check runs.
type MemoryStorage struct {
	records []*RunRecord
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Record persists one run record.
func (s *MemoryStorage) Record(ctx context.Context, rec *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to guard against later mutation by the caller.
	cp := *rec
	cp.Employees = append([]string(nil), rec.Employees...)
	s.records = append(s.records, &cp)
	return nil
}

// List returns matching runs, most recent StartedAt first.
func (s *MemoryStorage) List(ctx context.Context, q *Query) ([]*RunRecord, error) {
	if q == nil {
		q = &Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*RunRecord
	for _, rec := range s.records {
		if matches(rec, q) {
			cp := *rec
			cp.Employees = append([]string(nil), rec.Employees...)
			results = append(results, &cp)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].StartedAt.After(results[j].StartedAt)
	})

	start := q.Offset
	if start > len(results) {
		return nil, nil
	}
	results = results[start:]

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of matching runs.
func (s *MemoryStorage) Count(ctx context.Context, q *Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rec := range s.records {
		if matches(rec, q) {
			n++
		}
	}
	return n, nil
}

// Close releases nothing; it satisfies the Storage interface.
func (s *MemoryStorage) Close() error {
	return nil
}

const defaultListLimit = 100

func matches(rec *RunRecord, q *Query) bool {
	if q == nil {
		return true
	}
	if q.Status != "" && rec.Status != q.Status {
		return false
	}
	if q.InputFile != "" && rec.InputFile != q.InputFile {
		return false
	}
	if q.Since != nil && rec.StartedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && rec.StartedAt.After(*q.Until) {
		return false
	}
	return true
}
