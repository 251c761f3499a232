package workreports

import (
	"context"
	"errors"
	"testing"
	"time"

	"workportal/internal/domain/auth"
	"workportal/internal/domain/directory"
)

var (
	employee = auth.UserContext{UserID: "e1", Name: "Test Employee", Email: "test@example.com", RoleName: auth.RoleEmployee, Department: "Data", Team: "Data"}
	other    = auth.UserContext{UserID: "e2", Name: "Other Employee", Email: "other@example.com", RoleName: auth.RoleEmployee}
	manager  = auth.UserContext{UserID: "m1", Name: "Tejaswini", Email: "tejaswini@example.com", RoleName: auth.RoleManager, Department: "HR", Team: "HR"}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	svc := NewService(NewMemoryStore(), directory.NewService(directory.NewMemoryStore(directory.DefaultSnapshot())), loc)
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func validInput(date string) CreateInput {
	return CreateInput{
		EmployeeName:     "Test Employee",
		Department:       "Data",
		Team:             "Data",
		ReportingManager: "T. Pardhasaradhi",
		Date:             date,
		Tasks:            []Task{{Details: "Built pipeline", Status: "WIP"}, {Details: "Reviewed", Status: "Completed"}},
	}
}

func TestSubmitStoresReport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	report, err := svc.Submit(ctx, employee, validInput("2025-03-10"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if report.ID == "" || report.EmployeeEmail != "test@example.com" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.SubmittedAt.Location().String() != "Asia/Kolkata" {
		t.Fatalf("expected portal timezone, got %s", report.SubmittedAt.Location())
	}

	stored, err := svc.Store.Get(ctx, report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Tasks) != 2 || stored.Tasks[1].Status != "Completed" {
		t.Fatalf("unexpected tasks: %+v", stored.Tasks)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  auth.UserContext
		mutate func(*CreateInput)
		field  string
	}{
		{name: "empty tasks", actor: employee, mutate: func(in *CreateInput) { in.Tasks = nil }, field: "tasks"},
		{name: "blank task details", actor: employee, mutate: func(in *CreateInput) { in.Tasks[0].Details = "   " }, field: "tasks[0].details"},
		{name: "unknown status", actor: employee, mutate: func(in *CreateInput) { in.Tasks[1].Status = "Done" }, field: "tasks[1].status"},
		{name: "missing date", actor: employee, mutate: func(in *CreateInput) { in.Date = "" }, field: "date"},
		{name: "bad date", actor: employee, mutate: func(in *CreateInput) { in.Date = "10/03/2025" }, field: "date"},
		{name: "missing manager", actor: employee, mutate: func(in *CreateInput) { in.ReportingManager = "" }, field: "reporting_manager"},
		{name: "manager outside team", actor: employee, mutate: func(in *CreateInput) { in.ReportingManager = "Tejaswini" }, field: "reporting_manager"},
		{name: "manager role must escalate", actor: manager, mutate: func(in *CreateInput) {}, field: "reporting_manager"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput("2025-03-10")
			tc.mutate(&in)
			_, err := svc.Submit(ctx, tc.actor, in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			found := false
			for _, issue := range verr.Issues {
				if issue.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue on %s, got %+v", tc.field, verr.Issues)
			}
		})
	}

	reports, _ := svc.Store.List(ctx, Filter{})
	if len(reports) != 0 {
		t.Fatalf("invalid submissions must not be stored, got %d", len(reports))
	}
}

func TestManagerSubmitsToEscalation(t *testing.T) {
	tests := []struct {
		name    string
		dept    string
		team    string
		manager string
		field   string
	}{
		{name: "escalation manager accepted", dept: "HR", team: "HR", manager: "Anant Tiwari"},
		{name: "unknown department", dept: "No Such Department", team: "No Such Team", manager: "Anant Tiwari", field: "department"},
		{name: "team outside department", dept: "HR", team: "Data", manager: "Anant Tiwari", field: "team"},
		{name: "team manager refused", dept: "HR", team: "HR", manager: "Tejaswini", field: "reporting_manager"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t)
			ctx := context.Background()
			in := validInput("2025-03-10")
			in.EmployeeName, in.Department, in.Team, in.ReportingManager = "Tejaswini", tc.dept, tc.team, tc.manager
			_, err := svc.Submit(ctx, manager, in)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("submit: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || len(verr.Issues) != 1 || verr.Issues[0].Field != tc.field {
				t.Fatalf("expected one issue on %s, got %v", tc.field, err)
			}
			if reports, _ := svc.Store.List(ctx, Filter{}); len(reports) != 0 {
				t.Fatalf("rejected submission was stored: %+v", reports)
			}
		})
	}
}

func TestResubmissionAppends(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	first, err := svc.Submit(ctx, employee, validInput("2025-03-10"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	second, err := svc.Submit(ctx, employee, validInput("2025-03-10"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("expected distinct report ids")
	}
	reports, err := svc.List(ctx, employee, Filter{FromDate: "2025-03-10", ToDate: "2025-03-10"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 2 || reports[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", reports)
	}
}

func TestListScopesEmployeesToOwnReports(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Submit(ctx, employee, validInput("2025-03-10")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	otherInput := validInput("2025-03-11")
	otherInput.EmployeeName = "Other Employee"
	if _, err := svc.Submit(ctx, other, otherInput); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, err := svc.List(ctx, employee, Filter{EmployeeEmail: "other@example.com"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].EmployeeEmail != "test@example.com" {
		t.Fatalf("employee must only see own reports, got %+v", mine)
	}

	all, err := svc.List(ctx, manager, Filter{Department: "All Departments", Team: "All Teams", Manager: "All Reporting Managers"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("manager should see every report, got %d", len(all))
	}

	ranged, err := svc.List(ctx, manager, Filter{FromDate: "2025-03-11"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Date != "2025-03-11" {
		t.Fatalf("unexpected ranged result: %+v", ranged)
	}
}

func TestUpdateAndDeleteAreManagerOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	report, err := svc.Submit(ctx, employee, validInput("2025-03-10"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	newTasks := []Task{{Details: "Rewritten", Status: "Delayed"}}

	if _, _, err := svc.UpdateTasks(ctx, employee, report.ID, newTasks); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Delete(ctx, employee, report.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	before, after, err := svc.UpdateTasks(ctx, manager, report.ID, newTasks)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(before.Tasks) != 2 || len(after.Tasks) != 1 || after.Tasks[0].Details != "Rewritten" {
		t.Fatalf("unexpected update result: before=%+v after=%+v", before, after)
	}
	if after.LastModifiedAt == nil || after.LastModifiedBy != "tejaswini@example.com" {
		t.Fatalf("expected modification stamp, got %+v", after)
	}
	if after.ID != report.ID || after.EmployeeEmail != report.EmployeeEmail || after.Date != report.Date {
		t.Fatal("edit must only replace tasks")
	}

	if _, _, err := svc.UpdateTasks(ctx, manager, report.ID, nil); err == nil {
		t.Fatal("expected validation error for empty tasks")
	}
	if _, _, err := svc.UpdateTasks(ctx, manager, "missing", newTasks); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := svc.Delete(ctx, manager, report.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Delete(ctx, manager, report.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestToday(t *testing.T) {
	svc := newTestService(t)
	svc.Now = func() time.Time { return time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC) }
	if got := svc.Today(); got != "2025-03-11" {
		t.Fatalf("expected IST date 2025-03-11, got %s", got)
	}
}

func TestListAcceptsTimestampBounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Submit(ctx, employee, validInput("2025-03-10")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	reports, err := svc.List(ctx, manager, Filter{FromDate: "2025-03-10T00:00:00Z", ToDate: "2025-03-10T00:00:00Z"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected the report on the bound day, got %d", len(reports))
	}
}
