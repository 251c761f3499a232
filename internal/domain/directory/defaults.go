package directory

const (
	StatusWIP        = "WIP"
	StatusCompleted  = "Completed"
	StatusYetToStart = "Yet to Start"
	StatusDelayed    = "Delayed"
)

func DefaultStatusOptions() []string {
	return []string{StatusWIP, StatusCompleted, StatusYetToStart, StatusDelayed}
}

// DefaultEscalation is the fixed reporting chain for manager-role submitters.
func DefaultEscalation() []string {
	return []string{"Anant Tiwari", "Alimpan Banerjee"}
}

func DefaultDirectory() Directory {
	return Directory{
		"Soul Centre": {
			"Soul Central": {"Atia"},
			"Field Team":   {"Siddharth Gautam", "Sai Kiran Gurram", "Akhilesh Mishra"},
		},
		"Directors": {
			"Director":           {"Anant Tiwari"},
			"Associate Director": {"Alimpan Banerjee"},
		},
		"Directors team": {
			"Directors Team": {"Himani Sehgal", "Pawan Beniwal", "Aditya Pandit", "Sravya", "Eshwar"},
		},
		"Campaign": {"Campaign": {"S S Manoharan"}},
		"Data":     {"Data": {"T. Pardhasaradhi"}},
		"Media":    {"Media": {"Aakanksha Tandon"}},
		"Research": {"Research": {"P. Srinath Rao"}},
		"DMC": {
			"HIVE":                  {"Madhunisha and Apoorva"},
			"Digital Communication": {"Keerthana"},
			"Digital Production":    {"Bapan"},
		},
		"HR":    {"HR": {"Tejaswini"}},
		"Admin": {"Operations": {"Nikash"}},
	}
}

func DefaultManagerResources() map[string]int {
	return map[string]int{
		"Atia":                   4,
		"Akhilesh Mishra":        12,
		"Siddharth Gautam":       8,
		"Sai Kiran Gurram":       3,
		"Himani Sehgal":          6,
		"Pawan Beniwal":          3,
		"Aditya Pandit":          3,
		"Sravya":                 1,
		"Eshwar":                 1,
		"S S Manoharan":          4,
		"T. Pardhasaradhi":       5,
		"Aakanksha Tandon":       6,
		"P. Srinath Rao":         2,
		"Madhunisha and Apoorva": 1,
		"Keerthana":              7,
		"Bapan":                  15,
		"Tejaswini":              4,
		"Nikash":                 4,
	}
}

func DefaultSnapshot() Snapshot {
	return Snapshot{
		Departments:      DefaultDirectory(),
		Escalation:       DefaultEscalation(),
		StatusOptions:    DefaultStatusOptions(),
		ManagerResources: DefaultManagerResources(),
	}
}
