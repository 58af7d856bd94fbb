package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
)

func d(day int) time.Time {
	return time.Date(2025, 11, day, 0, 0, 0, 0, time.UTC)
}

func present(day int) attendance.Record {
	in := d(day).Add(9 * time.Hour)
	return attendance.Record{Date: d(day), CheckIn: &in, Status: attendance.StatusPresent}
}

func marked(day int, status attendance.Status) attendance.Record {
	return attendance.Record{Date: d(day), Status: status}
}

func TestSummarizeRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []attendance.Record
		start   time.Time
		end     time.Time
		want    attendance.WorkedDays
	}{
		{
			name:  "empty month",
			start: d(1),
			end:   d(30),
			want:  attendance.WorkedDays{WorkingDays: 25, AbsentDays: 25},
		},
		{
			name:    "present and leave",
			records: []attendance.Record{present(3), present(4), marked(5, attendance.StatusLeave)},
			start:   d(1),
			end:     d(30),
			want:    attendance.WorkedDays{WorkingDays: 25, PresentDays: 2, LeaveDays: 1, AbsentDays: 22},
		},
		{
			name:    "holiday and absent count as neither",
			records: []attendance.Record{marked(3, attendance.StatusHoliday), marked(4, attendance.StatusAbsent)},
			start:   d(3),
			end:     d(4),
			want:    attendance.WorkedDays{WorkingDays: 2, AbsentDays: 2},
		},
		{
			name:    "sunday check-in counts as present but absent floors at zero",
			records: []attendance.Record{present(2)},
			start:   d(2),
			end:     d(2),
			want:    attendance.WorkedDays{WorkingDays: 0, PresentDays: 1, AbsentDays: 0},
		},
		{
			name:    "records outside range ignored",
			records: []attendance.Record{present(1), present(10)},
			start:   d(3),
			end:     d(8),
			want:    attendance.WorkedDays{WorkingDays: 6, AbsentDays: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeRecords(tt.records, tt.start, tt.end)
			if got != tt.want {
				t.Errorf("SummarizeRecords() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
