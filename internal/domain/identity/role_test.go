package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"Admin", RoleAdmin},
		{"admin", RoleAdmin},
		{" ADMIN ", RoleAdmin},
		{"HR", RoleHR},
		{"PayrollOfficer", RolePayrollOfficer},
		{"Payroll Officer", RolePayrollOfficer},
		{"payroll-officer", RolePayrollOfficer},
		{"Employee", RoleEmployee},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRole(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseRole_Unknown(t *testing.T) {
	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestIdentityPermissions(t *testing.T) {
	employee := Identity{EmployeeID: "emp-1", Role: RoleEmployee}
	officer := Identity{EmployeeID: "emp-2", Role: RolePayrollOfficer}

	assert.ErrorIs(t, employee.Require(PermissionPayrunManage), ErrForbidden)
	assert.NoError(t, officer.Require(PermissionPayrunManage))

	assert.True(t, employee.CanAccessEmployee("emp-1", PermissionPayslipViewAll))
	assert.False(t, employee.CanAccessEmployee("emp-9", PermissionPayslipViewAll))
	assert.True(t, officer.CanAccessEmployee("emp-9", PermissionPayslipViewAll))
}
