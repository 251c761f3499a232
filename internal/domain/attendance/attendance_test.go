package attendance

import (
	"reflect"
	"testing"

	"workportal/internal/domain/workreports"
)

func TestSummarize(t *testing.T) {
	resources := map[string]int{"Tejaswini": 4, "Sravya": 1, "Bapan": 15}
	reports := []workreports.Report{
		{EmployeeName: "Riya", EmployeeEmail: "riya@example.com", ReportingManager: "Tejaswini", Date: "2025-03-10"},
		{EmployeeName: "Riya", EmployeeEmail: "RIYA@example.com", ReportingManager: "Tejaswini", Date: "2025-03-10"},
		{EmployeeName: "Arun", EmployeeEmail: "arun@example.com", ReportingManager: "Tejaswini", Date: "2025-03-10"},
		{EmployeeName: "Kavya", EmployeeEmail: "kavya@example.com", ReportingManager: "Sravya", Date: "2025-03-10"},
		{EmployeeName: "Dev", EmployeeEmail: "dev@example.com", ReportingManager: "Sravya", Date: "2025-03-10"},
		{EmployeeName: "Old", EmployeeEmail: "old@example.com", ReportingManager: "Bapan", Date: "2025-03-09"},
		{EmployeeName: "Ghost", EmployeeEmail: "ghost@example.com", ReportingManager: "Unknown", Date: "2025-03-10"},
	}

	got := Summarize("2025-03-10", resources, reports)
	if got.Date != "2025-03-10" {
		t.Fatalf("unexpected date %s", got.Date)
	}

	tej := got.Summary["Tejaswini"]
	if tej.Present != 2 || tej.Absent != 2 || !reflect.DeepEqual(tej.PresentEmployees, []string{"Arun", "Riya"}) {
		t.Fatalf("unexpected Tejaswini row: %+v", tej)
	}
	if s := got.Summary["Sravya"]; s.Present != 2 || s.Absent != 0 {
		t.Fatalf("absent must floor at zero, got %+v", s)
	}
	if b := got.Summary["Bapan"]; b.Present != 0 || b.Absent != 15 || b.PresentEmployees == nil {
		t.Fatalf("unexpected Bapan row: %+v", b)
	}
	if _, ok := got.Summary["Unknown"]; ok {
		t.Fatal("managers without resources are not summarized")
	}

	if !reflect.DeepEqual(got.Managers(), []string{"Bapan", "Sravya", "Tejaswini"}) {
		t.Fatalf("unexpected manager order %v", got.Managers())
	}
	if totals := got.Totals(); totals.TotalResources != 20 || totals.Present != 4 || totals.Absent != 17 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}
