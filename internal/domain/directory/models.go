package directory

import "sort"

// Sentinel filter values that mean "no constraint".
const (
	AllDepartments = "All Departments"
	AllTeams       = "All Teams"
	AllManagers    = "All Reporting Managers"
	All            = "All"
)

// IsSentinel reports whether a filter value should be treated as unset.
func IsSentinel(value string) bool {
	switch value {
	case "", All, AllDepartments, AllTeams, AllManagers:
		return true
	}
	return false
}

// Directory maps department to team to its ordered reporting managers.
type Directory map[string]map[string][]string

func (d Directory) Departments() []string {
	out := make([]string, 0, len(d))
	for dept := range d {
		out = append(out, dept)
	}
	sort.Strings(out)
	return out
}

func (d Directory) TeamsFor(department string) []string {
	teams, ok := d[department]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(teams))
	for team := range teams {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}

func (d Directory) ManagersFor(department, team string) []string {
	teams, ok := d[department]
	if !ok {
		return []string{}
	}
	managers, ok := teams[team]
	if !ok {
		return []string{}
	}
	return append([]string{}, managers...)
}

func (d Directory) Has(department, team string) bool {
	teams, ok := d[department]
	if !ok {
		return false
	}
	_, ok = teams[team]
	return ok
}

// Snapshot is the full reference data set served to clients.
type Snapshot struct {
	Departments      Directory
	Escalation       []string
	StatusOptions    []string
	ManagerResources map[string]int
}

func (s Snapshot) ValidStatus(status string) bool {
	for _, opt := range s.StatusOptions {
		if opt == status {
			return true
		}
	}
	return false
}

// AllManagers lists every manager across the directory in first-seen order
// by sorted department and team.
func (s Snapshot) AllManagers() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, dept := range s.Departments.Departments() {
		for _, team := range s.Departments.TeamsFor(dept) {
			for _, m := range s.Departments.ManagersFor(dept, team) {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				out = append(out, m)
			}
		}
	}
	return out
}
