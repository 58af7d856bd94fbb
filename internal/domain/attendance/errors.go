package attendance

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn      = apperror.Conflict("already checked in")
	ErrNoCheckIn             = apperror.State("no check-in")
	ErrAlreadyCheckedOut     = apperror.Conflict("already checked out")
	ErrCheckOutBeforeCheckIn = apperror.Validation("check-out cannot be earlier than check-in")

	// General errors
	ErrAttendanceExists   = apperror.Conflict("attendance already recorded for date")
	ErrAttendanceNotFound = apperror.NotFound("attendance record not found")
	ErrInvalidRange       = apperror.Validation("start date must not be after end date")
	ErrRangeTooLong       = apperror.Validation("date range must not exceed 366 days")
	ErrInvalidStatus      = apperror.Validation("status must be one of leave, absent, holiday")
)
