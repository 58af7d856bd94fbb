package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
)

type AttendanceRepository struct {
	store *Store
}

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)

// CheckIn implements attendance.AttendanceRepository.
func (r *AttendanceRepository) CheckIn(ctx context.Context, employeeID string, date time.Time, at time.Time) (attendance.Record, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attendanceKey{employeeID: employeeID, date: date}
	now := s.now()

	record, exists := s.attendance[key]
	if exists && record.HasCheckIn() {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}
	if !exists {
		record = attendance.Record{
			ID:         newID(),
			EmployeeID: employeeID,
			Date:       date,
			CreatedAt:  now,
		}
	}
	record.CheckIn = timePtr(at)
	record.Status = attendance.StatusPresent
	record.UpdatedAt = now

	s.attendance[key] = record
	return record, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (r *AttendanceRepository) CheckOut(ctx context.Context, employeeID string, date time.Time, at time.Time) (attendance.Record, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attendanceKey{employeeID: employeeID, date: date}
	record, exists := s.attendance[key]
	switch {
	case !exists || !record.HasCheckIn():
		return attendance.Record{}, attendance.ErrNoCheckIn
	case record.HasCheckOut():
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	case at.Before(*record.CheckIn):
		return attendance.Record{}, attendance.ErrCheckOutBeforeCheckIn
	}

	record.CheckOut = timePtr(at)
	record.UpdatedAt = s.now()
	s.attendance[key] = record
	return record, nil
}

// MarkStatus implements attendance.AttendanceRepository.
func (r *AttendanceRepository) MarkStatus(ctx context.Context, employeeID string, date time.Time, status attendance.Status) (attendance.Record, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attendanceKey{employeeID: employeeID, date: date}
	if _, exists := s.attendance[key]; exists {
		return attendance.Record{}, attendance.ErrAttendanceExists
	}

	now := s.now()
	record := attendance.Record{
		ID:         newID(),
		EmployeeID: employeeID,
		Date:       date,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.attendance[key] = record
	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.attendance[attendanceKey{employeeID: employeeID, date: date}]
	if !exists {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return record, nil
}

// ListRange implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]attendance.Record, 0)
	for key, record := range s.attendance {
		if key.employeeID != employeeID {
			continue
		}
		if key.date.Before(start) || key.date.After(end) {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}
