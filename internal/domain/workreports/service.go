package workreports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"workportal/internal/domain/auth"
	"workportal/internal/domain/directory"
)

type Service struct {
	Store     StoreAPI
	Directory *directory.Service
	Location  *time.Location
	Now       func() time.Time
}

func NewService(store StoreAPI, dir *directory.Service, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{Store: store, Directory: dir, Location: loc, Now: time.Now}
}

// Submit validates and stores a new report owned by the caller. Every call
// creates a new report, even for a date the caller already reported.
func (s *Service) Submit(ctx context.Context, actor auth.UserContext, in CreateInput) (Report, error) {
	snap, err := s.Directory.Snapshot(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load directory: %w", err)
	}

	in.EmployeeName = strings.TrimSpace(in.EmployeeName)
	in.Department = strings.TrimSpace(in.Department)
	in.Team = strings.TrimSpace(in.Team)
	in.ReportingManager = strings.TrimSpace(in.ReportingManager)
	in.Date = strings.TrimSpace(in.Date)

	verr := &ValidationError{}
	required := map[string]string{
		"employee_name":     in.EmployeeName,
		"department":        in.Department,
		"team":              in.Team,
		"reporting_manager": in.ReportingManager,
		"date":              in.Date,
	}
	for _, field := range []string{"employee_name", "department", "team", "reporting_manager", "date"} {
		if required[field] == "" {
			verr.add(field, "required")
		}
	}
	if in.Date != "" {
		if _, err := time.Parse(DateLayout, in.Date); err != nil {
			verr.add("date", "must be YYYY-MM-DD")
		}
	}
	tasks := validateTasks(snap, in.Tasks, verr)
	if in.Department != "" && in.Team != "" && in.ReportingManager != "" {
		if err := directory.ValidateChain(snap, actor.IsManager(), in.Department, in.Team, in.ReportingManager); err != nil {
			verr.add(chainField(err), err.Error())
		}
	}
	if err := verr.orNil(); err != nil {
		return Report{}, err
	}

	report := Report{
		ID:               uuid.NewString(),
		EmployeeName:     in.EmployeeName,
		EmployeeEmail:    strings.ToLower(actor.Email),
		Department:       in.Department,
		Team:             in.Team,
		ReportingManager: in.ReportingManager,
		Date:             in.Date,
		SubmittedAt:      s.now(),
		Tasks:            tasks,
	}
	if err := s.Store.Create(ctx, report); err != nil {
		return Report{}, fmt.Errorf("create report: %w", err)
	}
	return report, nil
}

// List returns matching reports, newest submission first. Employees only see
// their own reports whatever the filter says.
func (s *Service) List(ctx context.Context, actor auth.UserContext, filter Filter) ([]Report, error) {
	filter = filter.Normalize()
	if !actor.IsManager() {
		filter.EmployeeEmail = strings.ToLower(actor.Email)
	}
	return s.Store.List(ctx, filter)
}

// UpdateTasks replaces the task list of a report wholesale.
func (s *Service) UpdateTasks(ctx context.Context, actor auth.UserContext, id string, tasks []Task) (Report, Report, error) {
	if !actor.IsManager() {
		return Report{}, Report{}, fmt.Errorf("%w: only managers can edit reports", ErrForbidden)
	}
	before, err := s.Store.Get(ctx, id)
	if err != nil {
		return Report{}, Report{}, err
	}
	snap, err := s.Directory.Snapshot(ctx)
	if err != nil {
		return Report{}, Report{}, fmt.Errorf("load directory: %w", err)
	}
	verr := &ValidationError{}
	clean := validateTasks(snap, tasks, verr)
	if err := verr.orNil(); err != nil {
		return Report{}, Report{}, err
	}
	after, err := s.Store.ReplaceTasks(ctx, id, clean, s.now(), strings.ToLower(actor.Email))
	if err != nil {
		return Report{}, Report{}, err
	}
	return before, after, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.UserContext, id string) (Report, error) {
	if !actor.IsManager() {
		return Report{}, fmt.Errorf("%w: only managers can delete reports", ErrForbidden)
	}
	report, err := s.Store.Get(ctx, id)
	if err != nil {
		return Report{}, err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return Report{}, err
	}
	return report, nil
}

// ForDate lists every report for a calendar date regardless of owner.
func (s *Service) ForDate(ctx context.Context, date string) ([]Report, error) {
	return s.Store.List(ctx, Filter{FromDate: date, ToDate: date})
}

// Today is the current calendar date in the portal timezone.
func (s *Service) Today() string {
	return s.now().Format(DateLayout)
}

func (s *Service) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().In(s.Location)
}

func validateTasks(snap directory.Snapshot, tasks []Task, verr *ValidationError) []Task {
	if len(tasks) == 0 {
		verr.add("tasks", "at least one task is required")
		return nil
	}
	out := make([]Task, 0, len(tasks))
	for i, task := range tasks {
		details := strings.TrimSpace(task.Details)
		status := strings.TrimSpace(task.Status)
		if details == "" {
			verr.add(fmt.Sprintf("tasks[%d].details", i), "required")
		}
		if !snap.ValidStatus(status) {
			verr.add(fmt.Sprintf("tasks[%d].status", i), "must be one of "+strings.Join(snap.StatusOptions, ", "))
		}
		out = append(out, Task{Details: details, Status: status})
	}
	return out
}

// chainField names the input field a directory chain error belongs to.
func chainField(err error) string {
	switch {
	case errors.Is(err, directory.ErrUnknownDepartment):
		return "department"
	case errors.Is(err, directory.ErrUnknownTeam):
		return "team"
	default:
		return "reporting_manager"
	}
}
