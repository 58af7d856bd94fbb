package identity

// Identity is the authenticated caller, resolved once at the transport
// boundary and passed explicitly into every service call.
type Identity struct {
	UserID     string
	EmployeeID string
	Role       Role
}

func (i Identity) Can(permission Permission) bool {
	return HasPermission(i.Role, permission)
}

// Require returns ErrForbidden when the caller lacks permission.
func (i Identity) Require(permission Permission) error {
	if !i.Can(permission) {
		return ErrForbidden
	}
	return nil
}

// CanAccessEmployee reports whether the caller may read data owned by employeeID.
func (i Identity) CanAccessEmployee(employeeID string, viewAll Permission) bool {
	if employeeID != "" && employeeID == i.EmployeeID {
		return true
	}
	return i.Can(viewAll)
}
