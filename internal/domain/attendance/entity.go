package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLeave, StatusHoliday:
		return true
	}
	return false
}

// Record is the single attendance entry for an employee on a calendar date.
// Date is always midnight UTC of the local calendar day.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r Record) HasCheckIn() bool {
	return r.CheckIn != nil
}

func (r Record) HasCheckOut() bool {
	return r.CheckOut != nil
}

// Worked returns the closed session length, or zero while the session is open.
func (r Record) Worked() time.Duration {
	if r.CheckIn == nil || r.CheckOut == nil {
		return 0
	}
	return r.CheckOut.Sub(*r.CheckIn)
}

// WorkedDays summarizes attendance over a payroll period.
type WorkedDays struct {
	WorkingDays int `json:"working_days"`
	PresentDays int `json:"present_days"`
	LeaveDays   int `json:"leave_days"`
	AbsentDays  int `json:"absent_days"`
}

// PaidDays is present plus leave, the numerator used for proration.
func (w WorkedDays) PaidDays() int {
	return w.PresentDays + w.LeaveDays
}

// DateOf returns the calendar date of t in loc, normalized to midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// At returns the wall-clock time hh:mm on the calendar day date in loc.
func At(date time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc)
}
