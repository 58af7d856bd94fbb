package identity

type Permission string

const (
	// Attendance
	PermissionAttendanceSelf    Permission = "attendance.self"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Payroll
	PermissionPayrunView   Permission = "payrun.view"
	PermissionPayrunManage Permission = "payrun.manage"

	// Payslips
	PermissionPayslipViewOwn Permission = "payslip.view_own"
	PermissionPayslipViewAll Permission = "payslip.view_all"
	PermissionPayslipPublish Permission = "payslip.publish"

	// Dashboard
	PermissionDashboardView Permission = "dashboard.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceSelf,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionPayrunView,
		PermissionPayrunManage,
		PermissionPayslipViewOwn,
		PermissionPayslipViewAll,
		PermissionPayslipPublish,
		PermissionDashboardView,
	},
	RolePayrollOfficer: {
		PermissionAttendanceSelf,
		PermissionAttendanceViewAll,
		PermissionPayrunView,
		PermissionPayrunManage,
		PermissionPayslipViewOwn,
		PermissionPayslipViewAll,
		PermissionPayslipPublish,
		PermissionDashboardView,
	},
	RoleHR: {
		PermissionAttendanceSelf,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionPayrunView,
		PermissionPayslipViewOwn,
		PermissionDashboardView,
	},
	RoleEmployee: {
		PermissionAttendanceSelf,
		PermissionPayslipViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
