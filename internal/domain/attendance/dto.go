package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MarkStatusRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`

	ParsedDate time.Time `json:"-"`
}

func (r *MarkStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if d, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		r.ParsedDate = d
	}

	if !validator.IsInSlice(r.Status, []string{string(StatusLeave), string(StatusAbsent), string(StatusHoliday)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of leave, absent, holiday",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	Date          string     `json:"date"`
	CheckIn       *time.Time `json:"check_in"`
	CheckOut      *time.Time `json:"check_out"`
	Status        Status     `json:"status"`
	WorkedMinutes int        `json:"worked_minutes"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Date:          r.Date.Format("2006-01-02"),
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		Status:        r.Status,
		WorkedMinutes: int(r.Worked().Minutes()),
	}
}

func NewRecordResponses(records []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecordResponse(r))
	}
	return out
}

// TodayState is the caller-facing check-in state for the current day.
type TodayState string

const (
	TodayNotCheckedIn TodayState = "not_checked_in"
	TodayCheckedIn    TodayState = "checked_in"
	TodayCheckedOut   TodayState = "checked_out"
	TodayOnLeave      TodayState = "on_leave"
	TodayHoliday      TodayState = "holiday"
	TodayAbsent       TodayState = "absent"
)

type TodayStatusResponse struct {
	Date          string          `json:"date"`
	State         TodayState      `json:"state"`
	Record        *RecordResponse `json:"record,omitempty"`
	WorkedMinutes int             `json:"worked_minutes"`
}

type SummaryResponse struct {
	EmployeeID string `json:"employee_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	WorkedDays
}
