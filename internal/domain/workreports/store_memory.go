package workreports

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps reports in process memory for development runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: map[string]Report{}}
}

func (s *MemoryStore) Create(_ context.Context, report Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = cloneReport(report)
	return nil
}

func (s *MemoryStore) List(_ context.Context, filter Filter) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Report{}
	for _, r := range s.reports {
		if filter.Matches(r) {
			out = append(out, cloneReport(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	return cloneReport(r), nil
}

func (s *MemoryStore) ReplaceTasks(_ context.Context, id string, tasks []Task, modifiedAt time.Time, modifiedBy string) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	r.Tasks = append([]Task{}, tasks...)
	r.LastModifiedAt = &modifiedAt
	r.LastModifiedBy = modifiedBy
	s.reports[id] = r
	return cloneReport(r), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return ErrNotFound
	}
	delete(s.reports, id)
	return nil
}

func cloneReport(r Report) Report {
	r.Tasks = append([]Task{}, r.Tasks...)
	if r.LastModifiedAt != nil {
		at := *r.LastModifiedAt
		r.LastModifiedAt = &at
	}
	return r
}
