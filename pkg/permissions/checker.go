// Package permissions maps roles to permission strings and checks them
// with support for wildcards.
//
// Permission Format:
//   - "*" - Full access (all permissions)
//   - "resource.*" - All actions on a resource (e.g., "reports.*")
//   - "resource.action" - Specific action (e.g., "reports.read")
//   - "resource.subresource.action" - Nested permission (e.g., "reports.own.write")
package permissions

import (
	"strings"
)

// Permissions checked by the HTTP API
const (
	CompanyRead     = "company.read"
	CompanyManage   = "company.manage"
	EmployeesRead   = "employees.read"
	EmployeesManage = "employees.manage"
	ReportsRead     = "reports.read"
	ReportsExport   = "reports.export"
	OwnReportsRead  = "reports.own.read"
	OwnReportsWrite = "reports.own.write"
)

var rolePermissions = map[string][]string{
	"employer": {"company.*", "employees.*", ReportsRead, ReportsExport},
	"employee": {"reports.own.*"},
}

// ForRole returns the permissions granted to role, or nil for unknown roles
func ForRole(role string) []string {
	return rolePermissions[role]
}

// RoleHas reports whether role grants the required permission
func RoleHas(role, required string) bool {
	return HasPermission(ForRole(role), required)
}

// HasPermission checks if the user's permissions include the required permission.
// Supports wildcard matching:
//   - "*" matches everything
//   - "reports.*" matches "reports.read", "reports.own.write", etc.
//   - Exact match for specific permissions
func HasPermission(userPerms []string, required string) bool {
	if required == "" {
		return true
	}

	for _, p := range userPerms {
		if p == "*" {
			return true
		}
		if p == required {
			return true
		}
		if strings.HasSuffix(p, ".*") {
			prefix := strings.TrimSuffix(p, ".*")
			if strings.HasPrefix(required, prefix+".") {
				return true
			}
		}
	}
	return false
}
