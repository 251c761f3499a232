package workreports

import (
	"strings"
	"time"

	"workportal/internal/domain/directory"
)

// DateLayout is the calendar-date format used for report dates and filters.
const DateLayout = "2006-01-02"

type Task struct {
	Details string `json:"details"`
	Status  string `json:"status"`
}

type Report struct {
	ID               string     `json:"id"`
	EmployeeName     string     `json:"employee_name"`
	EmployeeEmail    string     `json:"employee_email"`
	Department       string     `json:"department"`
	Team             string     `json:"team"`
	ReportingManager string     `json:"reporting_manager"`
	Date             string     `json:"date"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	LastModifiedAt   *time.Time `json:"last_modified_at,omitempty"`
	LastModifiedBy   string     `json:"last_modified_by,omitempty"`
	Tasks            []Task     `json:"tasks"`
}

type CreateInput struct {
	EmployeeName     string
	Department       string
	Team             string
	ReportingManager string
	Date             string
	Tasks            []Task
}

// Filter narrows a report listing. Empty fields do not constrain.
type Filter struct {
	Department    string
	Team          string
	Manager       string
	FromDate      string
	ToDate        string
	EmployeeEmail string
}

// Normalize trims the filter and clears sentinel "All ..." values.
func (f Filter) Normalize() Filter {
	clean := func(v string) string {
		v = strings.TrimSpace(v)
		if directory.IsSentinel(v) {
			return ""
		}
		return v
	}
	return Filter{
		Department:    clean(f.Department),
		Team:          clean(f.Team),
		Manager:       clean(f.Manager),
		FromDate:      calendarDate(f.FromDate),
		ToDate:        calendarDate(f.ToDate),
		EmployeeEmail: strings.ToLower(strings.TrimSpace(f.EmployeeEmail)),
	}
}

// calendarDate reduces an RFC3339 bound to its YYYY-MM-DD day so it compares
// against report dates. Other values are only trimmed.
func calendarDate(v string) string {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.Format(DateLayout)
	}
	return v
}

// Matches applies the filter to a single report. Date bounds are inclusive
// and compared as YYYY-MM-DD strings.
func (f Filter) Matches(r Report) bool {
	if f.Department != "" && r.Department != f.Department {
		return false
	}
	if f.Team != "" && r.Team != f.Team {
		return false
	}
	if f.Manager != "" && r.ReportingManager != f.Manager {
		return false
	}
	if f.FromDate != "" && r.Date < f.FromDate {
		return false
	}
	if f.ToDate != "" && r.Date > f.ToDate {
		return false
	}
	if f.EmployeeEmail != "" && !strings.EqualFold(r.EmployeeEmail, f.EmployeeEmail) {
		return false
	}
	return true
}
