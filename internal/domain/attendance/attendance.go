// Package attendance derives per-manager presence counts from the reports
// submitted on a single day.
package attendance

import (
	"sort"
	"strings"

	"workportal/internal/domain/workreports"
)

type ManagerAttendance struct {
	TotalResources   int      `json:"total_resources"`
	Present          int      `json:"present"`
	Absent           int      `json:"absent"`
	PresentEmployees []string `json:"present_employees"`
}

type Summary struct {
	Date    string                       `json:"date"`
	Summary map[string]ManagerAttendance `json:"attendance_summary"`
}

// Summarize counts each employee once per reporting manager, however many
// reports they filed that day. Only managers with a resource count appear.
func Summarize(date string, resources map[string]int, reports []workreports.Report) Summary {
	present := map[string][]string{}
	seen := map[string]map[string]struct{}{}
	for _, r := range reports {
		if r.Date != date {
			continue
		}
		key := strings.ToLower(r.EmployeeEmail)
		if key == "" {
			key = r.EmployeeName
		}
		if seen[r.ReportingManager] == nil {
			seen[r.ReportingManager] = map[string]struct{}{}
		}
		if _, ok := seen[r.ReportingManager][key]; ok {
			continue
		}
		seen[r.ReportingManager][key] = struct{}{}
		present[r.ReportingManager] = append(present[r.ReportingManager], r.EmployeeName)
	}

	out := Summary{Date: date, Summary: map[string]ManagerAttendance{}}
	for manager, total := range resources {
		names := append([]string{}, present[manager]...)
		sort.Strings(names)
		absent := total - len(names)
		if absent < 0 {
			absent = 0
		}
		out.Summary[manager] = ManagerAttendance{
			TotalResources:   total,
			Present:          len(names),
			Absent:           absent,
			PresentEmployees: names,
		}
	}
	return out
}

// Managers returns the summary keys in alphabetical order.
func (s Summary) Managers() []string {
	out := make([]string, 0, len(s.Summary))
	for m := range s.Summary {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Totals adds up resources, present and absent across all managers.
func (s Summary) Totals() ManagerAttendance {
	var t ManagerAttendance
	for _, m := range s.Summary {
		t.TotalResources += m.TotalResources
		t.Present += m.Present
		t.Absent += m.Absent
	}
	return t
}
