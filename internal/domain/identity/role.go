package identity

import (
	"strings"
)

type Role string

const (
	RoleAdmin          Role = "admin"           // Full access, manages payruns and attendance
	RoleHR             Role = "hr"              // Attendance and employee data
	RolePayrollOfficer Role = "payroll_officer" // Runs payroll
	RoleEmployee       Role = "employee"        // Self service only
)

var roleAliases = map[string]Role{
	"admin":           RoleAdmin,
	"administrator":   RoleAdmin,
	"hr":              RoleHR,
	"hr_officer":      RoleHR,
	"payroll_officer": RolePayrollOfficer,
	"payrollofficer":  RolePayrollOfficer,
	"payroll":         RolePayrollOfficer,
	"employee":        RoleEmployee,
}

// ParseRole resolves a raw role claim. Case, surrounding spaces and the
// separators used across clients ("Payroll Officer", "payroll-officer") are ignored.
func ParseRole(raw string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	role, ok := roleAliases[key]
	if !ok {
		return "", ErrUnknownRole
	}
	return role, nil
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RolePayrollOfficer, RoleEmployee:
		return true
	}
	return false
}
