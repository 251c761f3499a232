package workreports

// Summary aggregates task statuses across a set of reports.
type Summary struct {
	TotalReports   int            `json:"total_reports"`
	CountsByStatus map[string]int `json:"counts_by_status"`
}

func Summarize(reports []Report) Summary {
	out := Summary{TotalReports: len(reports), CountsByStatus: map[string]int{}}
	for _, r := range reports {
		for _, task := range r.Tasks {
			out.CountsByStatus[task.Status]++
		}
	}
	return out
}

// Merge adds two summaries element-wise.
func (s Summary) Merge(other Summary) Summary {
	out := Summary{TotalReports: s.TotalReports + other.TotalReports, CountsByStatus: map[string]int{}}
	for status, n := range s.CountsByStatus {
		out.CountsByStatus[status] += n
	}
	for status, n := range other.CountsByStatus {
		out.CountsByStatus[status] += n
	}
	return out
}

// Count returns the number of tasks in a status, zero when absent.
func (s Summary) Count(status string) int {
	return s.CountsByStatus[status]
}
