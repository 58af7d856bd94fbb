package payroll

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

var (
	// Payrun errors
	ErrPayrunNotFound    = apperror.NotFound("payrun not found")
	ErrPayrunExists      = apperror.Conflict("a payrun already exists for this period")
	ErrInvalidTransition = apperror.State("illegal payrun status transition")
	ErrPayrunClosed      = apperror.State("payrun is closed for changes")
	ErrInvalidPeriod     = apperror.Validation("invalid payroll period")
	ErrInvalidStatus     = apperror.Validation("invalid payrun status")

	// Line errors
	ErrPayrollLineNotFound = apperror.NotFound("payroll line not found")
	ErrLineFailed          = apperror.State("payroll line failed to compute")

	// Structure errors
	ErrInvalidBasicWage = apperror.Validation("basic wage must be greater than zero")
	ErrUnresolvedBase   = apperror.Validation("percentage rule references unresolved base")
	ErrDuplicateBase    = apperror.Validation("salary structure declares more than one basic rule")
	ErrInvalidRule      = apperror.Validation("invalid compensation rule")
	ErrEmptyStructure   = apperror.Validation("salary structure has no rules")
)
