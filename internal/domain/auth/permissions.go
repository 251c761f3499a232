package auth

import "context"

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

const (
	PermDirectoryRead  = "directory.read"
	PermReportsSubmit  = "reports.submit"
	PermReportsRead    = "reports.read"
	PermReportsExport  = "reports.export"
	PermReportsReview  = "reports.review"
	PermAttendanceRead = "attendance.read"
	PermManagersRead   = "managers.read"
	PermAuditRead      = "audit.read"
)

var DefaultPermissions = []string{
	PermDirectoryRead,
	PermReportsSubmit,
	PermReportsRead,
	PermReportsExport,
	PermReportsReview,
	PermAttendanceRead,
	PermManagersRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermDirectoryRead,
		PermReportsSubmit,
		PermReportsRead,
		PermReportsExport,
		PermManagersRead,
	},
	RoleManager: {
		PermDirectoryRead,
		PermReportsSubmit,
		PermReportsRead,
		PermReportsExport,
		PermReportsReview,
		PermAttendanceRead,
		PermManagersRead,
		PermAuditRead,
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// StaticPermissions resolves permissions from RolePermissions; roles are fixed at signup
// so no lookup table is needed.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, roleName, permission string) (bool, error) {
	for _, perm := range RolePermissions[roleName] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}
