package board

import (
	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
)

// Filters is the board's query. Department, team and manager cascade the
// same way as the submission form; sentinel "All ..." values mean unset.
type Filters struct {
	Department string
	Team       string
	Manager    string
	FromDate   string
	ToDate     string
}

func (f Filters) WithDepartment(department string) Filters {
	if department == f.Department {
		return f
	}
	return Filters{Department: department, FromDate: f.FromDate, ToDate: f.ToDate}
}

func (f Filters) WithTeam(team string) Filters {
	if team == f.Team {
		return f
	}
	f.Team = team
	f.Manager = ""
	return f
}

func (f Filters) WithManager(manager string) Filters {
	f.Manager = manager
	return f
}

func (f Filters) WithDates(from, to string) Filters {
	f.FromDate = from
	f.ToDate = to
	return f
}

// Query is the normalized filter sent to the server.
func (f Filters) Query() workreports.Filter {
	return workreports.Filter{
		Department: f.Department,
		Team:       f.Team,
		Manager:    f.Manager,
		FromDate:   f.FromDate,
		ToDate:     f.ToDate,
	}.Normalize()
}

// TeamChoices lists the teams for the filter's department, empty while the
// department is unset.
func TeamChoices(dir directory.Directory, f Filters) []string {
	if directory.IsSentinel(f.Department) {
		return []string{}
	}
	return dir.TeamsFor(f.Department)
}

// ManagerChoices lists the managers for the filter's department and team.
func ManagerChoices(dir directory.Directory, f Filters) []string {
	if directory.IsSentinel(f.Department) || directory.IsSentinel(f.Team) {
		return []string{}
	}
	return dir.ManagersFor(f.Department, f.Team)
}
