package identity

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

var (
	ErrUnknownRole = apperror.Validation("unknown role")
	ErrForbidden   = apperror.Forbidden("you do not have permission to perform this action")
	ErrNoEmployee  = apperror.Validation("caller is not linked to an employee")
)
