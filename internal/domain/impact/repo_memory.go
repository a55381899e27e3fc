package impact

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMemoryCapacity bounds the in-memory store; the oldest records are
// dropped first.
const DefaultMemoryCapacity = 10000

// MemoryStore is an AssessmentStore for running without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	records  []*Record
	capacity int
	Now      func() time.Time
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{capacity: capacity, Now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, r *Record) error {
	r.ID = uuid.New()
	if r.RiskLevel == "" {
		r.RiskLevel = unknownLevel
	}
	r.Diseases = nonNil(r.Diseases)
	r.Medications = nonNil(r.Medications)

	s.mu.Lock()
	defer s.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.Now().UTC()
	}
	stored := cloneRecord(r)
	s.records = append(s.records, stored)
	if len(s.records) > s.capacity {
		s.records = s.records[len(s.records)-s.capacity:]
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]*Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.records)
	var items []*Record
	for i := total - 1 - offset; i >= 0 && len(items) < limit; i-- {
		items = append(items, cloneRecord(s.records[i]))
	}
	return items, total, nil
}

func (s *MemoryStore) ListBetween(_ context.Context, from, to time.Time) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []*Record
	for _, r := range s.records {
		if !r.CreatedAt.Before(from) && r.CreatedAt.Before(to) {
			items = append(items, cloneRecord(r))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func cloneRecord(r *Record) *Record {
	c := *r
	c.Diseases = append([]string{}, r.Diseases...)
	c.Medications = append([]string{}, r.Medications...)
	return &c
}
