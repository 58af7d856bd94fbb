package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	worker  = identity.Identity{UserID: "u-1", EmployeeID: "emp-1", Role: identity.RoleEmployee}
	other   = identity.Identity{UserID: "u-2", EmployeeID: "emp-2", Role: identity.RoleEmployee}
	hr      = identity.Identity{UserID: "u-3", EmployeeID: "emp-3", Role: identity.RoleHR}
	monday  = time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	novFrom = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	novTo   = time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
)

func newService(t *testing.T, loc *time.Location) (attendance.AttendanceService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Asha Rao", Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", EmployeeCode: "E002", FullName: "Ravi Iyer", Active: true})
	return NewAttendanceService(store.Attendance(), store.Employees(), loc), store
}

func TestCheckInCheckOut(t *testing.T) {
	svc, _ := newService(t, time.UTC)
	ctx := context.Background()

	rec, err := svc.CheckIn(ctx, worker, monday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), rec.Date)

	_, err = svc.CheckIn(ctx, worker, monday.Add(time.Minute))
	assert.True(t, apperror.IsConflict(err))

	rec, err = svc.CheckOut(ctx, worker, monday.Add(8*time.Hour+30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 510, int(rec.Worked().Minutes()))

	_, err = svc.CheckOut(ctx, worker, monday.Add(9*time.Hour))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOutWithoutCheckInIsStateError(t *testing.T) {
	svc, _ := newService(t, time.UTC)

	_, err := svc.CheckOut(context.Background(), worker, monday)
	assert.True(t, apperror.IsState(err))
}

func TestCheckInRequiresLinkedEmployee(t *testing.T) {
	svc, _ := newService(t, time.UTC)
	admin := identity.Identity{UserID: "root", Role: identity.RoleAdmin}

	_, err := svc.CheckIn(context.Background(), admin, monday)
	assert.ErrorIs(t, err, identity.ErrNoEmployee)
}

func TestCheckInUsesLocalCalendarDay(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	svc, _ := newService(t, ist)

	// 20:00 UTC on Nov 3 is 01:30 on Nov 4 in IST.
	rec, err := svc.CheckIn(context.Background(), worker, time.Date(2025, 11, 3, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC), rec.Date)
}

func TestTodayStatus(t *testing.T) {
	svc, store := newService(t, time.UTC)
	ctx := context.Background()

	status, err := svc.TodayStatus(ctx, worker, monday)
	require.NoError(t, err)
	assert.Equal(t, attendance.TodayNotCheckedIn, status.State)
	assert.Nil(t, status.Record)

	_, err = svc.CheckIn(ctx, worker, monday)
	require.NoError(t, err)
	status, err = svc.TodayStatus(ctx, worker, monday.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, attendance.TodayCheckedIn, status.State)
	assert.Equal(t, 90, status.WorkedMinutes)

	_, err = store.Attendance().MarkStatus(ctx, "emp-2", time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), attendance.StatusLeave)
	require.NoError(t, err)
	status, err = svc.TodayStatus(ctx, other, monday)
	require.NoError(t, err)
	assert.Equal(t, attendance.TodayOnLeave, status.State)
}

func TestGetRangeAccess(t *testing.T) {
	svc, _ := newService(t, time.UTC)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, worker, monday)
	require.NoError(t, err)

	records, err := svc.GetRange(ctx, worker, "emp-1", novFrom, novTo)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = svc.GetRange(ctx, other, "emp-1", novFrom, novTo)
	assert.ErrorIs(t, err, identity.ErrForbidden)

	records, err = svc.GetRange(ctx, hr, "emp-1", novFrom, novTo)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetRangeValidation(t *testing.T) {
	svc, _ := newService(t, time.UTC)
	ctx := context.Background()

	_, err := svc.GetRange(ctx, worker, "emp-1", novTo, novFrom)
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)

	_, err = svc.GetRange(ctx, worker, "emp-1", novFrom, novFrom.AddDate(2, 0, 0))
	assert.ErrorIs(t, err, attendance.ErrRangeTooLong)
}

func TestMarkStatus(t *testing.T) {
	svc, _ := newService(t, time.UTC)
	ctx := context.Background()

	rec, err := svc.MarkStatus(ctx, hr, "emp-1", attendance.MarkStatusRequest{Date: "2025-11-05", Status: "leave"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLeave, rec.Status)
	assert.False(t, rec.HasCheckIn())

	_, err = svc.MarkStatus(ctx, hr, "emp-1", attendance.MarkStatusRequest{Date: "2025-11-05", Status: "absent"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	_, err = svc.MarkStatus(ctx, worker, "emp-1", attendance.MarkStatusRequest{Date: "2025-11-06", Status: "leave"})
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = svc.MarkStatus(ctx, hr, "ghost", attendance.MarkStatusRequest{Date: "2025-11-06", Status: "leave"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.MarkStatus(ctx, hr, "emp-1", attendance.MarkStatusRequest{Date: "06/11/2025", Status: "present"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestSummary(t *testing.T) {
	svc, _ := newService(t, time.UTC)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, worker, monday)
	require.NoError(t, err)
	_, err = svc.MarkStatus(ctx, hr, "emp-1", attendance.MarkStatusRequest{Date: "2025-11-04", Status: "leave"})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, worker, "emp-1", novFrom, novTo)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-01", summary.Start)
	assert.Equal(t, 25, summary.WorkingDays)
	assert.Equal(t, 1, summary.PresentDays)
	assert.Equal(t, 1, summary.LeaveDays)
	assert.Equal(t, 23, summary.AbsentDays)
}
