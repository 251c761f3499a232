package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"workportal/internal/platform/querier"
)

type Run struct {
	ID          string          `json:"id"`
	JobType     string          `json:"jobType"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

type RunStore interface {
	Start(ctx context.Context, jobType string) (string, error)
	Finish(ctx context.Context, id, status string, details []byte) error
	List(ctx context.Context, jobType string, limit int) ([]Run, error)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Start(ctx context.Context, jobType string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id::text
  `, jobType, StatusRunning).Scan(&id)
	return id, err
}

func (s *Store) Finish(ctx context.Context, id, status string, details []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id::text = $3
  `, status, details, id)
	return err
}

func (s *Store) List(ctx context.Context, jobType string, limit int) ([]Run, error) {
	query := "SELECT id::text, job_type, status, details_json, started_at, completed_at FROM job_runs"
	args := []any{}
	if jobType != "" {
		args = append(args, jobType)
		query += " WHERE job_type = $1"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY started_at DESC LIMIT $%d", len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var run Run
		var details []byte
		if err := rows.Scan(&run.ID, &run.JobType, &run.Status, &details, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.Details = details
		out = append(out, run)
	}
	return out, rows.Err()
}

type MemoryStore struct {
	mu   sync.Mutex
	runs []Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Start(_ context.Context, jobType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := Run{ID: uuid.NewString(), JobType: jobType, Status: StatusRunning, StartedAt: time.Now()}
	s.runs = append(s.runs, run)
	return run.ID, nil
}

func (s *MemoryStore) Finish(_ context.Context, id, status string, details []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.runs {
		if s.runs[i].ID == id {
			now := time.Now()
			s.runs[i].Status = status
			s.runs[i].Details = append(json.RawMessage{}, details...)
			s.runs[i].CompletedAt = &now
			return nil
		}
	}
	return fmt.Errorf("job run %s not found", id)
}

func (s *MemoryStore) List(_ context.Context, jobType string, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Run
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if jobType == "" || s.runs[i].JobType == jobType {
			out = append(out, s.runs[i])
		}
	}
	return out, nil
}
