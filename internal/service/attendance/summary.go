package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
)

// WeeklyOff is the non-working weekday.
const WeeklyOff = time.Sunday

// Aggregator builds worked-days summaries from the ledger.
type Aggregator struct {
	attendanceRepo attendance.AttendanceRepository
}

func NewAggregator(attendanceRepo attendance.AttendanceRepository) *Aggregator {
	return &Aggregator{attendanceRepo: attendanceRepo}
}

// Summarize implements attendance.WorkedDaysAggregator.
func (a *Aggregator) Summarize(ctx context.Context, employeeID string, start, end time.Time) (attendance.WorkedDays, []attendance.Record, error) {
	if start.After(end) {
		return attendance.WorkedDays{}, nil, attendance.ErrInvalidRange
	}

	records, err := a.attendanceRepo.ListRange(ctx, employeeID, start, end)
	if err != nil {
		return attendance.WorkedDays{}, nil, fmt.Errorf("failed to list attendance for %s: %w", employeeID, err)
	}

	return SummarizeRecords(records, start, end), records, nil
}

// SummarizeRecords counts working, present, leave and absent days over the
// inclusive calendar range [start, end]. Records outside the range are ignored.
func SummarizeRecords(records []attendance.Record, start, end time.Time) attendance.WorkedDays {
	first := attendance.DateOf(start, time.UTC)
	last := attendance.DateOf(end, time.UTC)

	var w attendance.WorkedDays
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != WeeklyOff {
			w.WorkingDays++
		}
	}

	seen := make(map[time.Time]struct{}, len(records))
	for _, r := range records {
		day := attendance.DateOf(r.Date, time.UTC)
		if day.Before(first) || day.After(last) {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}

		switch {
		case r.HasCheckIn():
			w.PresentDays++
		case r.Status == attendance.StatusLeave:
			w.LeaveDays++
		}
	}

	w.AbsentDays = w.WorkingDays - w.PresentDays - w.LeaveDays
	if w.AbsentDays < 0 {
		w.AbsentDays = 0
	}
	return w
}
