package payroll

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type PayrunFilter struct {
	Status *PayrunStatus

	// Pagination. A zero Limit lists every match.
	Page  int
	Limit int
}

// Validate checks the filter and applies page defaults
func (f *PayrunFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	if f.Status != nil && !f.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Offset is the number of rows skipped before the current page
func (f PayrunFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type PayrunRepository interface {
	// Create inserts a draft payrun. Returns ErrPayrunExists when a
	// non-cancelled payrun already covers (month, year).
	Create(ctx context.Context, payrun Payrun) (Payrun, error)

	GetByID(ctx context.Context, id string) (Payrun, error)

	// List returns one page of payruns newest period first, plus the number
	// of payruns matching the filter across all pages.
	List(ctx context.Context, filter PayrunFilter) ([]Payrun, int64, error)

	// Transition moves the payrun to `to` only if its current status is one of
	// `from`, in a single conditional write. Returns ErrInvalidTransition otherwise.
	Transition(ctx context.Context, id string, from []PayrunStatus, to PayrunStatus) (Payrun, error)
}

type PayrollLineRepository interface {
	// Upsert replaces the (employee, payrun) line. The write is rejected with
	// ErrPayrunClosed unless the payrun is draft or processing at write time.
	Upsert(ctx context.Context, line Line) (Line, error)

	GetByPayrunAndEmployee(ctx context.Context, payrunID, employeeID string) (Line, error)

	// ListByPayrun returns lines ordered by employee code
	ListByPayrun(ctx context.Context, payrunID string) ([]Line, error)
}
