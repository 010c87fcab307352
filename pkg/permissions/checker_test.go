package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		perms    []string
		required string
		want     bool
	}{
		{"empty requirement", nil, "", true},
		{"exact", []string{"reports.read"}, "reports.read", true},
		{"full access", []string{"*"}, "employees.manage", true},
		{"wildcard", []string{"reports.*"}, "reports.own.write", true},
		{"wildcard needs dot boundary", []string{"report.*"}, "reports.read", false},
		{"missing", []string{"reports.read"}, "reports.export", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.perms, tt.required))
		})
	}
}

func TestRoleHas(t *testing.T) {
	assert.True(t, RoleHas("employer", EmployeesManage))
	assert.True(t, RoleHas("employer", CompanyManage))
	assert.True(t, RoleHas("employer", ReportsExport))
	assert.False(t, RoleHas("employer", OwnReportsWrite))

	assert.True(t, RoleHas("employee", OwnReportsWrite))
	assert.True(t, RoleHas("employee", OwnReportsRead))
	assert.False(t, RoleHas("employee", ReportsRead))
	assert.False(t, RoleHas("employee", EmployeesRead))

	assert.False(t, RoleHas("", ReportsRead))
	assert.Nil(t, ForRole("admin"))
}
