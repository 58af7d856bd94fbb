package dashboard

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

var (
	ErrInvalidWindow = apperror.Validation("window must be between 1 and 24 months")
)
