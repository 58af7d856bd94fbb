package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
)

// MonthlyTotal is the aggregate of one payroll month.
type MonthlyTotal struct {
	Year          int
	Month         int
	Gross         decimal.Decimal
	EmployeeCount int
}

type DashboardRepository interface {
	// MonthlyTotals sums gross of computed lines belonging to non-cancelled
	// payruns whose period lies between (fromYear, fromMonth) and (toYear, toMonth)
	// inclusive. Months without lines are omitted.
	MonthlyTotals(ctx context.Context, fromYear, fromMonth, toYear, toMonth int) ([]MonthlyTotal, error)
}
