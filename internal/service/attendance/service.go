package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
)

const maxRangeDays = 366

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	aggregator     *Aggregator
	loc            *time.Location
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		aggregator:     NewAggregator(attendanceRepo),
		loc:            loc,
	}
}

func selfEmployee(actor identity.Identity) (string, error) {
	if err := actor.Require(identity.PermissionAttendanceSelf); err != nil {
		return "", err
	}
	if actor.EmployeeID == "" {
		return "", identity.ErrNoEmployee
	}
	return actor.EmployeeID, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, actor identity.Identity, now time.Time) (attendance.Record, error) {
	employeeID, err := selfEmployee(actor)
	if err != nil {
		return attendance.Record{}, err
	}

	today := attendance.DateOf(now, s.loc)
	record, err := s.attendanceRepo.CheckIn(ctx, employeeID, today, now.UTC())
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to check in: %w", err)
	}

	slog.Info("employee checked in", "employee_id", employeeID, "date", today.Format("2006-01-02"))
	return record, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, actor identity.Identity, now time.Time) (attendance.Record, error) {
	employeeID, err := selfEmployee(actor)
	if err != nil {
		return attendance.Record{}, err
	}

	today := attendance.DateOf(now, s.loc)
	record, err := s.attendanceRepo.CheckOut(ctx, employeeID, today, now.UTC())
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNoCheckIn),
			errors.Is(err, attendance.ErrAlreadyCheckedOut),
			errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to check out: %w", err)
	}

	slog.Info("employee checked out", "employee_id", employeeID, "worked_minutes", int(record.Worked().Minutes()))
	return record, nil
}

// TodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodayStatus(ctx context.Context, actor identity.Identity, now time.Time) (attendance.TodayStatusResponse, error) {
	employeeID, err := selfEmployee(actor)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	today := attendance.DateOf(now, s.loc)
	resp := attendance.TodayStatusResponse{
		Date:  today.Format("2006-01-02"),
		State: attendance.TodayNotCheckedIn,
	}

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return resp, nil
		}
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	rr := attendance.NewRecordResponse(record)
	resp.Record = &rr

	switch {
	case record.HasCheckOut():
		resp.State = attendance.TodayCheckedOut
		resp.WorkedMinutes = int(record.Worked().Minutes())
	case record.HasCheckIn():
		resp.State = attendance.TodayCheckedIn
		if elapsed := now.Sub(*record.CheckIn); elapsed > 0 {
			resp.WorkedMinutes = int(elapsed.Minutes())
		}
	case record.Status == attendance.StatusLeave:
		resp.State = attendance.TodayOnLeave
	case record.Status == attendance.StatusHoliday:
		resp.State = attendance.TodayHoliday
	case record.Status == attendance.StatusAbsent:
		resp.State = attendance.TodayAbsent
	}

	return resp, nil
}

// GetRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetRange(ctx context.Context, actor identity.Identity, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	if !actor.CanAccessEmployee(employeeID, identity.PermissionAttendanceViewAll) {
		return nil, identity.ErrForbidden
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// MarkStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkStatus(ctx context.Context, actor identity.Identity, employeeID string, req attendance.MarkStatusRequest) (attendance.Record, error) {
	if err := actor.Require(identity.PermissionAttendanceManage); err != nil {
		return attendance.Record{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to get employee: %w", err)
	}

	record, err := s.attendanceRepo.MarkStatus(ctx, employeeID, attendance.DateOf(req.ParsedDate, time.UTC), attendance.Status(req.Status))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	slog.Info("attendance status marked", "employee_id", employeeID, "date", req.Date, "status", req.Status, "by", actor.UserID)
	return record, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, actor identity.Identity, employeeID string, start, end time.Time) (attendance.SummaryResponse, error) {
	if !actor.CanAccessEmployee(employeeID, identity.PermissionAttendanceViewAll) {
		return attendance.SummaryResponse{}, identity.ErrForbidden
	}
	if err := validateRange(start, end); err != nil {
		return attendance.SummaryResponse{}, err
	}

	worked, _, err := s.aggregator.Summarize(ctx, employeeID, start, end)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	return attendance.SummaryResponse{
		EmployeeID: employeeID,
		Start:      start.Format("2006-01-02"),
		End:        end.Format("2006-01-02"),
		WorkedDays: worked,
	}, nil
}

func validateRange(start, end time.Time) error {
	if start.After(end) {
		return attendance.ErrInvalidRange
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return attendance.ErrRangeTooLong
	}
	return nil
}
