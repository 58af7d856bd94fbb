package payroll

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// Resolver turns a wage, a salary structure and attendance into a computation.
type Resolver interface {
	Resolve(basicWage decimal.Decimal, rules []CompensationRule, worked attendance.WorkedDays, daily []attendance.Record) (Computation, error)
}

type PayrunService interface {
	// CreatePayrun opens a draft payrun for a period
	CreatePayrun(ctx context.Context, actor identity.Identity, req CreatePayrunRequest) (Payrun, error)
	// ComputeAll computes every active employee's line
	ComputeAll(ctx context.Context, actor identity.Identity, payrunID string) (ComputeResult, error)
	// Complete freezes a processing payrun
	Complete(ctx context.Context, actor identity.Identity, payrunID string) (Payrun, error)
	// Cancel abandons a draft or processing payrun
	Cancel(ctx context.Context, actor identity.Identity, payrunID string) (Payrun, error)
	// UpdateStatus applies a requested status through the state machine
	UpdateStatus(ctx context.Context, actor identity.Identity, payrunID string, req UpdatePayrunStatusRequest) (Payrun, error)
	// GetPayrun returns one payrun
	GetPayrun(ctx context.Context, actor identity.Identity, payrunID string) (Payrun, error)
	// ListPayruns returns one page of payruns, optionally filtered by status, and the total match count
	ListPayruns(ctx context.Context, actor identity.Identity, filter PayrunFilter) ([]Payrun, int64, error)
	// ListLines returns every line of a payrun
	ListLines(ctx context.Context, actor identity.Identity, payrunID string) ([]Line, error)
	// GetLine returns one employee's line
	GetLine(ctx context.Context, actor identity.Identity, payrunID, employeeID string) (Line, error)
}
