package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"workportal/internal/app/server/servertest"
	"workportal/internal/client"
	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
)

type harness struct {
	env *servertest.Env
	dir string
}

func (h harness) run(t *testing.T, state, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", h.env.URL(), "--state", filepath.Join(h.dir, state)}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h harness) mustRun(t *testing.T, state string, args ...string) string {
	t.Helper()
	out, err := h.run(t, state, "", args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func newHarness(t *testing.T) harness {
	env := servertest.Start(t)
	env.Account(t, "Asha", "asha@example.com", "employee", "HR", "HR")
	env.Account(t, "Tejaswini", "tejaswini@example.com", "manager", "HR", "HR")
	return harness{env: env, dir: t.TempDir()}
}

func TestSignedOutCommands(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "anon.yaml", "", "whoami"); err == nil {
		t.Fatal("expected whoami to fail when signed out")
	}
	if _, err := h.run(t, "anon.yaml", "", "submit", "--task", "x=WIP"); err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected login hint, got %v", err)
	}
	if out := h.mustRun(t, "anon.yaml", "theme", "dark"); strings.TrimSpace(out) != "dark" {
		t.Fatalf("unexpected theme output %q", out)
	}
	if out := h.mustRun(t, "anon.yaml", "theme"); strings.TrimSpace(out) != "dark" {
		t.Fatalf("theme not persisted: %q", out)
	}
	if out := h.mustRun(t, "anon.yaml", "directory"); !strings.Contains(out, "Tejaswini") || !strings.Contains(out, "Escalation: Anant Tiwari") {
		t.Fatalf("unexpected directory output:\n%s", out)
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "emp.yaml", servertest.Password+"\n", "login", "--email", "asha@example.com")
	if err != nil || !strings.Contains(out, "Login successful") {
		t.Fatalf("login: %v\n%s", err, out)
	}
	if out := h.mustRun(t, "emp.yaml", "whoami"); !strings.Contains(out, "Asha <asha@example.com>") {
		t.Fatalf("unexpected whoami: %s", out)
	}
	h.mustRun(t, "emp.yaml", "logout")
	if _, err := h.run(t, "emp.yaml", "", "whoami"); err == nil {
		t.Fatal("expected whoami to fail after logout")
	}
	if _, err := h.run(t, "bad.yaml", "", "login", "--email", "asha@example.com", "--password", "nope"); err == nil {
		t.Fatal("expected bad password to fail")
	}
	if _, err := h.run(t, "bad.yaml", "", "whoami"); err == nil {
		t.Fatal("expected no identity after a failed login")
	}
	if _, err := h.run(t, "bad.yaml", "", "reports"); err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected login hint after a failed login, got %v", err)
	}
}

func TestEmployeeSubmitAndManagerReview(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "emp.yaml", "login", "--email", "asha@example.com", "--password", servertest.Password)

	out := h.mustRun(t, "emp.yaml", "submit", "--date", "2026-10-15",
		"--task", "Onboarding docs=Completed", "--task", "Payroll inputs=WIP")
	if !strings.Contains(out, "Report submitted successfully!") {
		t.Fatalf("unexpected submit output: %s", out)
	}
	if _, err := h.run(t, "emp.yaml", "", "submit", "--task", " =WIP"); err == nil {
		t.Fatal("expected blank task details to be rejected")
	}
	if _, err := h.run(t, "emp.yaml", "", "submit", "--team", "Field Team", "--task", "x=WIP"); err == nil {
		t.Fatal("expected locked team to be rejected")
	}

	out = h.mustRun(t, "emp.yaml", "reports")
	if !strings.Contains(out, "Onboarding docs") || !strings.Contains(out, "1 report(s)") {
		t.Fatalf("unexpected employee reports:\n%s", out)
	}
	if _, err := h.run(t, "emp.yaml", "", "summary"); err == nil {
		t.Fatal("expected employees to be refused the team summary")
	}
	if _, err := h.run(t, "emp.yaml", "", "attendance"); err == nil {
		t.Fatal("expected employees to be refused attendance")
	}

	h.mustRun(t, "mgr.yaml", "login", "--email", "tejaswini@example.com", "--password", servertest.Password)
	out = h.mustRun(t, "mgr.yaml", "summary", "--department", "HR")
	if !strings.Contains(out, "Total reports: 1") || !strings.Contains(out, "Completed: 1") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	out = h.mustRun(t, "mgr.yaml", "attendance", "--date", "2026-10-15")
	if !strings.Contains(out, "Tejaswini") || !strings.Contains(out, "Asha") {
		t.Fatalf("unexpected attendance:\n%s", out)
	}

	csvPath := filepath.Join(h.dir, "reports.csv")
	h.mustRun(t, "mgr.yaml", "reports", "--format", "csv", "--out", csvPath)
	body, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(body), "Payroll inputs") {
		t.Fatalf("export missing task:\n%s", body)
	}

	pdfPath := filepath.Join(h.dir, "attendance.pdf")
	h.mustRun(t, "mgr.yaml", "attendance", "--date", "2026-10-15", "--pdf", pdfPath)
	if pdf, err := os.ReadFile(pdfPath); err != nil || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("attendance pdf not written: %v", err)
	}

	id := onlyReportID(t, h)
	out = h.mustRun(t, "mgr.yaml", "edit", id, "--task", "Onboarding docs=Delayed")
	if !strings.Contains(out, "Report updated successfully") {
		t.Fatalf("unexpected edit output: %s", out)
	}
	out = h.mustRun(t, "mgr.yaml", "summary")
	if !strings.Contains(out, "Delayed: 1") || strings.Contains(out, "WIP") {
		t.Fatalf("edit not applied:\n%s", out)
	}

	out, err = h.run(t, "mgr.yaml", "n\n", "delete", id)
	if err != nil || !strings.Contains(out, "Delete cancelled") {
		t.Fatalf("declined delete: %v\n%s", err, out)
	}
	out = h.mustRun(t, "mgr.yaml", "delete", id, "--yes")
	if !strings.Contains(out, "Report deleted successfully") {
		t.Fatalf("unexpected delete output: %s", out)
	}
	if out := h.mustRun(t, "mgr.yaml", "reports"); !strings.Contains(out, "0 report(s)") {
		t.Fatalf("report still listed:\n%s", out)
	}
}

func onlyReportID(t *testing.T, h harness) string {
	t.Helper()
	api, err := client.New(h.env.URL())
	if err != nil {
		t.Fatal(err)
	}
	sess, err := api.Login(context.Background(), "tejaswini@example.com", servertest.Password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	reports, err := api.WithBearer(sess.AccessToken).ListReports(context.Background(), workreports.Filter{})
	if err != nil || len(reports) != 1 {
		t.Fatalf("list reports: %v (%d)", err, len(reports))
	}
	return reports[0].ID
}

func TestParseTasks(t *testing.T) {
	statuses := directory.DefaultStatusOptions()
	cases := []struct {
		raw     string
		details string
		status  string
	}{
		{"a=b=WIP", "a=b", "WIP"},
		{"plain", "plain", "WIP"},
		{"Ship release=completed", "Ship release", "Completed"},
		{"set x=1", "set x=1", "WIP"},
		{"Anything=Done", "Anything=Done", "WIP"},
		{"retry=3=Delayed", "retry=3", "Delayed"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			tasks, err := parseTasks([]string{tc.raw}, statuses)
			if err != nil {
				t.Fatal(err)
			}
			if tasks[0].Details != tc.details || tasks[0].Status != tc.status {
				t.Fatalf("unexpected task: %+v", tasks[0])
			}
		})
	}
	if _, err := parseTasks([]string{"=WIP"}, statuses); err == nil {
		t.Fatal("expected empty details to fail")
	}
}

func TestSubmitKeepsEqualsInDetails(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "emp.yaml", "login", "--email", "asha@example.com", "--password", servertest.Password)
	h.mustRun(t, "emp.yaml", "submit", "--date", "2026-10-15", "--task", "Set retries=3")
	out := h.mustRun(t, "emp.yaml", "reports")
	if !strings.Contains(out, "Set retries=3") || !strings.Contains(out, "WIP") {
		t.Fatalf("details not kept whole:\n%s", out)
	}
}

func TestReportFiltersCheckedAgainstDirectory(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "mgr.yaml", "login", "--email", "tejaswini@example.com", "--password", servertest.Password)

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown department", []string{"reports", "--department", "Legal"}, `unknown department "Legal"`},
		{"team outside department", []string{"reports", "--department", "HR", "--team", "Data"}, `unknown team "Data"`},
		{"team without department", []string{"summary", "--team", "HR"}, "--team needs --department"},
		{"unknown manager", []string{"reports", "--manager", "Nobody"}, `unknown reporting manager "Nobody"`},
		{"manager outside team", []string{"reports", "--department", "HR", "--team", "HR", "--manager", "Nobody"}, `unknown reporting manager "Nobody"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.run(t, "mgr.yaml", "", tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}

	for _, args := range [][]string{
		{"reports", "--department", "HR", "--team", "HR", "--manager", "Tejaswini"},
		{"reports", "--department", "All Departments"},
		{"reports", "--manager", "Anant Tiwari"},
		{"summary", "--department", "HR", "--team", "HR"},
	} {
		h.mustRun(t, "mgr.yaml", args...)
	}
}

func TestManagersAndWhoami(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "anon.yaml", "", "managers"); err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected login hint, got %v", err)
	}
	h.mustRun(t, "emp.yaml", "login", "--email", "asha@example.com", "--password", servertest.Password)
	out := h.mustRun(t, "emp.yaml", "managers")
	if !strings.Contains(out, "Tejaswini <tejaswini@example.com>") || !strings.Contains(out, "1 manager(s)") {
		t.Fatalf("unexpected managers output:\n%s", out)
	}
	if out := h.mustRun(t, "emp.yaml", "whoami"); !strings.Contains(out, "Server: "+h.env.URL()) {
		t.Fatalf("whoami missing server:\n%s", out)
	}
}
