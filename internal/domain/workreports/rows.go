package workreports

// PlaceholderStatus fills the status column of a report that has no tasks.
const PlaceholderStatus = "N/A"

// RowHeader names the flat export columns in order.
var RowHeader = []string{"Date", "Employee Name", "Department", "Team", "Reporting Manager", "Task Details", "Status"}

// Row is one (report, task) pair flattened for tables and exports.
type Row struct {
	Date             string
	EmployeeName     string
	Department       string
	Team             string
	ReportingManager string
	Details          string
	Status           string
}

func (r Row) Fields() []string {
	return []string{r.Date, r.EmployeeName, r.Department, r.Team, r.ReportingManager, r.Details, r.Status}
}

// CSVRows flattens reports with full task text.
func CSVRows(reports []Report) []Row {
	return TableRows(reports, 0)
}

// TableRows flattens reports for display. Details longer than maxDetails
// runes are cut with an ellipsis; maxDetails <= 0 keeps the full text.
func TableRows(reports []Report, maxDetails int) []Row {
	var out []Row
	for _, r := range reports {
		base := Row{
			Date:             r.Date,
			EmployeeName:     r.EmployeeName,
			Department:       r.Department,
			Team:             r.Team,
			ReportingManager: r.ReportingManager,
		}
		if len(r.Tasks) == 0 {
			base.Status = PlaceholderStatus
			out = append(out, base)
			continue
		}
		for _, task := range r.Tasks {
			row := base
			row.Details = truncate(task.Details, maxDetails)
			row.Status = task.Status
			out = append(out, row)
		}
	}
	return out
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
