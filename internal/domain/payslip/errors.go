package payslip

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

var (
	ErrPayrunNotCompleted = apperror.State("payslips are published only for completed payruns")
	ErrPayslipNotFound    = apperror.NotFound("payslip not found")
)
