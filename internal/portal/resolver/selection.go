package resolver

// Selection is the department, team and manager picked on a form. Changing a
// level clears everything below it.
type Selection struct {
	Department string
	Team       string
	Manager    string
	// Locked selections keep their department and team.
	Locked bool
}

func (s Selection) WithDepartment(department string) Selection {
	if s.Locked || department == s.Department {
		return s
	}
	return Selection{Department: department}
}

func (s Selection) WithTeam(team string) Selection {
	if s.Locked || team == s.Team {
		return s
	}
	return Selection{Department: s.Department, Team: team}
}

func (s Selection) WithManager(manager string) Selection {
	s.Manager = manager
	return s
}
