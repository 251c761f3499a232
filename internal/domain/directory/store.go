package directory

import (
	"context"
	"fmt"

	"workportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Departments: Directory{}, ManagerResources: map[string]int{}}

	rows, err := s.DB.Query(ctx, `
    SELECT department, team, manager
    FROM directory_managers
    ORDER BY department, team, position
  `)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load directory: %w", err)
	}
	for rows.Next() {
		var dept, team, manager string
		if err := rows.Scan(&dept, &team, &manager); err != nil {
			rows.Close()
			return Snapshot{}, err
		}
		if snap.Departments[dept] == nil {
			snap.Departments[dept] = map[string][]string{}
		}
		snap.Departments[dept][team] = append(snap.Departments[dept][team], manager)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	if snap.Escalation, err = s.names(ctx, "SELECT name FROM escalation_managers ORDER BY position"); err != nil {
		return Snapshot{}, fmt.Errorf("load escalation: %w", err)
	}
	if snap.StatusOptions, err = s.names(ctx, "SELECT value FROM status_options ORDER BY position"); err != nil {
		return Snapshot{}, fmt.Errorf("load status options: %w", err)
	}

	resRows, err := s.DB.Query(ctx, "SELECT manager, total_resources FROM manager_resources")
	if err != nil {
		return Snapshot{}, fmt.Errorf("load manager resources: %w", err)
	}
	defer resRows.Close()
	for resRows.Next() {
		var manager string
		var total int
		if err := resRows.Scan(&manager, &total); err != nil {
			return Snapshot{}, err
		}
		snap.ManagerResources[manager] = total
	}
	return snap, resRows.Err()
}

func (s *Store) names(ctx context.Context, query string) ([]string, error) {
	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
