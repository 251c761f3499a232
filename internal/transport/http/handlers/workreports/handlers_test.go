package workreportshandler

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"workportal/internal/domain/audit"
	"workportal/internal/domain/auth"
	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
	"workportal/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type testEnv struct {
	handler  http.Handler
	audit    *audit.MemoryStore
	employee string
	manager  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	authSvc := auth.NewService(auth.NewMemoryStore(), testSecret, time.Hour, true)
	ctx := context.Background()
	emp, err := authSvc.Signup(ctx, auth.SignupInput{Name: "Test Employee", Email: "test@example.com", Password: "Welcome@123", Role: auth.RoleEmployee})
	if err != nil {
		t.Fatalf("signup employee: %v", err)
	}
	mgr, err := authSvc.Signup(ctx, auth.SignupInput{Name: "Bapan", Email: "bapan@example.com", Password: "Welcome@123", Role: auth.RoleManager})
	if err != nil {
		t.Fatalf("signup manager: %v", err)
	}

	dir := directory.NewService(directory.NewMemoryStore(directory.DefaultSnapshot()))
	svc := workreports.NewService(workreports.NewMemoryStore(), dir, time.UTC)
	auditStore := audit.NewMemoryStore()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(testSecret, authSvc))
	NewHandler(svc, auth.StaticPermissions{}, audit.New(auditStore), nil).RegisterRoutes(r)
	return testEnv{handler: r, audit: auditStore, employee: emp.AccessToken, manager: mgr.AccessToken}
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func reportPayload(date string) map[string]any {
	return map[string]any{
		"employee_name":     "Test Employee",
		"department":        "Data",
		"team":              "Data",
		"reporting_manager": "T. Pardhasaradhi",
		"date":              date,
		"tasks": []map[string]string{
			{"details": "Built pipeline", "status": "WIP"},
			{"details": "Reviewed dashboards", "status": "Completed"},
		},
	}
}

func submit(t *testing.T, env testEnv, date string) string {
	t.Helper()
	rec, body := do(t, env.handler, http.MethodPost, "/work-reports", env.employee, reportPayload(date))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status %d: %s", rec.Code, rec.Body.String())
	}
	id, _ := body["report_id"].(string)
	if id == "" {
		t.Fatalf("missing report id: %v", body)
	}
	return id
}

func TestSubmitAndList(t *testing.T) {
	env := newTestEnv(t)
	submit(t, env, "2025-03-10")
	submit(t, env, "2025-03-11")

	rec, body := do(t, env.handler, http.MethodGet, "/work-reports?from_date=2025-03-11", env.employee, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	reports, _ := body["reports"].([]any)
	if len(reports) != 1 {
		t.Fatalf("expected 1 filtered report, got %d", len(reports))
	}

	rec, body = do(t, env.handler, http.MethodGet, "/work-reports/summary", env.employee, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status %d", rec.Code)
	}
	if body["total_reports"] != float64(2) {
		t.Fatalf("unexpected summary %v", body)
	}
}

func TestSubmitRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec, body := do(t, env.handler, http.MethodPost, "/work-reports", "", reportPayload("2025-03-10"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body["detail"] != "Could not validate credentials" {
		t.Fatalf("unexpected detail %v", body["detail"])
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{name: "no tasks", mutate: func(p map[string]any) { p["tasks"] = []map[string]string{} }, field: "tasks"},
		{name: "bad date", mutate: func(p map[string]any) { p["date"] = "10/03/2025" }, field: "date"},
		{name: "unknown status", mutate: func(p map[string]any) {
			p["tasks"] = []map[string]string{{"details": "x", "status": "Paused"}}
		}, field: "tasks[0].status"},
		{name: "manager outside team", mutate: func(p map[string]any) { p["reporting_manager"] = "Bapan" }, field: "reporting_manager"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			payload := reportPayload("2025-03-10")
			tc.mutate(payload)
			rec, body := do(t, env.handler, http.MethodPost, "/work-reports", env.employee, payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			fields, _ := body["fields"].([]any)
			found := false
			for _, f := range fields {
				if m, ok := f.(map[string]any); ok && m["field"] == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue for %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestListRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := do(t, env.handler, http.MethodGet, "/work-reports?from_date=2025-03-12&to_date=2025-03-10", env.employee, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListTimestampBoundsIncludeDay(t *testing.T) {
	env := newTestEnv(t)
	submit(t, env, "2025-03-10")
	rec, body := do(t, env.handler, http.MethodGet, "/work-reports?from_date=2025-03-10T00:00:00Z&to_date=2025-03-10T00:00:00Z", env.manager, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d: %s", rec.Code, rec.Body.String())
	}
	if reports, _ := body["reports"].([]any); len(reports) != 1 {
		t.Fatalf("expected 1 report, got %v", body["reports"])
	}
}

func TestUpdateAndDeleteAreManagerOnly(t *testing.T) {
	env := newTestEnv(t)
	id := submit(t, env, "2025-03-10")
	update := map[string]any{"tasks": []map[string]string{{"details": "Rewritten", "status": "Completed"}}}

	rec, body := do(t, env.handler, http.MethodPut, "/work-reports/"+id, env.employee, update)
	if rec.Code != http.StatusForbidden || body["detail"] != "Only managers can edit reports" {
		t.Fatalf("expected edit 403, got %d %v", rec.Code, body)
	}
	rec, body = do(t, env.handler, http.MethodDelete, "/work-reports/"+id, env.employee, nil)
	if rec.Code != http.StatusForbidden || body["detail"] != "Only managers can delete reports" {
		t.Fatalf("expected delete 403, got %d %v", rec.Code, body)
	}

	rec, body = do(t, env.handler, http.MethodPut, "/work-reports/"+id, env.manager, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status %d: %s", rec.Code, rec.Body.String())
	}
	report, _ := body["report"].(map[string]any)
	if report["last_modified_by"] != "bapan@example.com" {
		t.Fatalf("unexpected editor %v", report["last_modified_by"])
	}

	rec, body = do(t, env.handler, http.MethodDelete, "/work-reports/"+id, env.manager, nil)
	if rec.Code != http.StatusOK || body["message"] != "Report deleted successfully" {
		t.Fatalf("delete failed: %d %v", rec.Code, body)
	}
	rec, body = do(t, env.handler, http.MethodDelete, "/work-reports/"+id, env.manager, nil)
	if rec.Code != http.StatusNotFound || body["detail"] != "Report not found" {
		t.Fatalf("expected 404, got %d %v", rec.Code, body)
	}

	events, err := env.audit.List(context.Background(), audit.Filter{EntityID: id}, 10)
	if err != nil {
		t.Fatalf("audit list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(events))
	}
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	submit(t, env, "2025-03-10")

	rec, _ := do(t, env.handler, http.MethodGet, "/work-reports/export/csv", env.employee, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "work_reports_") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 || records[0][0] != "Date" {
		t.Fatalf("unexpected csv: %v", records)
	}
}

func TestExportBinaryFormats(t *testing.T) {
	env := newTestEnv(t)
	submit(t, env, "2025-03-10")

	for _, format := range []string{"pdf", "xlsx"} {
		rec, _ := do(t, env.handler, http.MethodGet, "/work-reports/export/"+format, env.employee, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s export status %d", format, rec.Code)
		}
		if rec.Body.Len() == 0 {
			t.Fatalf("%s export is empty", format)
		}
	}
}
