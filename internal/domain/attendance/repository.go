package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Every write is a single conditional statement on the (employee, date) key so
// concurrent callers cannot both succeed.
type AttendanceRepository interface {
	// CheckIn inserts the record for (employee, date), or claims an existing record
	// that has no check-in yet. Returns ErrAlreadyCheckedIn when a check-in exists.
	CheckIn(ctx context.Context, employeeID string, date time.Time, at time.Time) (Record, error)

	// CheckOut stamps check-out on an open session.
	// Returns ErrNoCheckIn, ErrAlreadyCheckedOut or ErrCheckOutBeforeCheckIn.
	CheckOut(ctx context.Context, employeeID string, date time.Time, at time.Time) (Record, error)

	// MarkStatus creates a record without check-in (leave, absent, holiday).
	// Returns ErrAttendanceExists when the date already has a record.
	MarkStatus(ctx context.Context, employeeID string, date time.Time, status Status) (Record, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)

	// ListRange returns records with start <= date <= end ordered by date ascending.
	ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)
}
