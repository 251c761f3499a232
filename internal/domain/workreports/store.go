package workreports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"workportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const reportColumns = `id::text, employee_name, employee_email, department, team, reporting_manager,
    report_date::text, submitted_at, last_modified_at, COALESCE(last_modified_by, '')`

func (s *Store) Create(ctx context.Context, report Report) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
    INSERT INTO work_reports (id, employee_name, employee_email, department, team, reporting_manager, report_date, submitted_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7::date,$8)
  `, report.ID, report.EmployeeName, report.EmployeeEmail, report.Department, report.Team, report.ReportingManager, report.Date, report.SubmittedAt); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	if err := insertTasks(ctx, tx, report.ID, report.Tasks); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Report, error) {
	query := "SELECT " + reportColumns + " FROM work_reports WHERE 1=1"
	var args []any
	add := func(clause string, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}
	add("department = $%d", filter.Department)
	add("team = $%d", filter.Team)
	add("reporting_manager = $%d", filter.Manager)
	add("report_date >= $%d::date", filter.FromDate)
	add("report_date <= $%d::date", filter.ToDate)
	add("employee_email = $%d", filter.EmployeeEmail)
	query += " ORDER BY submitted_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := []Report{}
	index := map[string]int{}
	var ids []string
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[report.ID] = len(out)
		ids = append(ids, report.ID)
		out = append(out, report)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	taskRows, err := s.DB.Query(ctx, `
    SELECT report_id::text, details, status
    FROM work_report_tasks
    WHERE report_id::text = ANY($1)
    ORDER BY report_id, position
  `, ids)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var reportID string
		var task Task
		if err := taskRows.Scan(&reportID, &task.Details, &task.Status); err != nil {
			return nil, err
		}
		if i, ok := index[reportID]; ok {
			out[i].Tasks = append(out[i].Tasks, task)
		}
	}
	return out, taskRows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Report, error) {
	return getReport(ctx, s.DB, id)
}

func (s *Store) ReplaceTasks(ctx context.Context, id string, tasks []Task, modifiedAt time.Time, modifiedBy string) (Report, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Report{}, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE work_reports
    SET last_modified_at = $1, last_modified_by = $2
    WHERE id::text = $3
  `, modifiedAt, modifiedBy, id)
	if err != nil {
		return Report{}, err
	}
	if tag.RowsAffected() == 0 {
		return Report{}, ErrNotFound
	}
	if _, err := tx.Exec(ctx, "DELETE FROM work_report_tasks WHERE report_id::text = $1", id); err != nil {
		return Report{}, err
	}
	if err := insertTasks(ctx, tx, id, tasks); err != nil {
		return Report{}, err
	}
	report, err := getReport(ctx, tx, id)
	if err != nil {
		return Report{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Report{}, err
	}
	return report, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM work_reports WHERE id::text = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getReport(ctx context.Context, db rowQuerier, id string) (Report, error) {
	report, err := scanReport(db.QueryRow(ctx, "SELECT "+reportColumns+" FROM work_reports WHERE id::text = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}

	rows, err := db.Query(ctx, "SELECT details, status FROM work_report_tasks WHERE report_id::text = $1 ORDER BY position", id)
	if err != nil {
		return Report{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var task Task
		if err := rows.Scan(&task.Details, &task.Status); err != nil {
			return Report{}, err
		}
		report.Tasks = append(report.Tasks, task)
	}
	return report, rows.Err()
}

func insertTasks(ctx context.Context, tx pgx.Tx, reportID string, tasks []Task) error {
	for i, task := range tasks {
		if _, err := tx.Exec(ctx, `
      INSERT INTO work_report_tasks (report_id, position, details, status)
      VALUES ($1,$2,$3,$4)
    `, reportID, i, task.Details, task.Status); err != nil {
			return fmt.Errorf("insert task %d: %w", i, err)
		}
	}
	return nil
}

func scanReport(row pgx.Row) (Report, error) {
	var r Report
	err := row.Scan(&r.ID, &r.EmployeeName, &r.EmployeeEmail, &r.Department, &r.Team, &r.ReportingManager,
		&r.Date, &r.SubmittedAt, &r.LastModifiedAt, &r.LastModifiedBy)
	r.Tasks = []Task{}
	return r, err
}
