package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
)

type AttendanceService interface {
	// CheckIn opens today's session for the caller
	CheckIn(ctx context.Context, actor identity.Identity, now time.Time) (Record, error)
	// CheckOut closes today's session for the caller
	CheckOut(ctx context.Context, actor identity.Identity, now time.Time) (Record, error)
	// TodayStatus reports the caller's state for the current day
	TodayStatus(ctx context.Context, actor identity.Identity, now time.Time) (TodayStatusResponse, error)
	// GetRange lists an employee's records in [start, end]
	GetRange(ctx context.Context, actor identity.Identity, employeeID string, start, end time.Time) ([]Record, error)
	// MarkStatus records leave, absence or holiday for a date
	MarkStatus(ctx context.Context, actor identity.Identity, employeeID string, req MarkStatusRequest) (Record, error)
	// Summary returns the worked-days summary of an employee over [start, end]
	Summary(ctx context.Context, actor identity.Identity, employeeID string, start, end time.Time) (SummaryResponse, error)
}

// WorkedDaysAggregator feeds payroll computation. It returns the summary and
// the records it was built from so extra hours can be costed without a second read.
type WorkedDaysAggregator interface {
	Summarize(ctx context.Context, employeeID string, start, end time.Time) (WorkedDays, []Record, error)
}
