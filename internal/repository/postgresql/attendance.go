package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, date, check_in, check_out, status, created_at, updated_at`

type attendanceRepository struct {
	db database.Querier
}

func NewAttendanceRepository(db database.Querier) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// CheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckIn(ctx context.Context, employeeID string, date time.Time, at time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	// A marked record without check-in is claimed; a checked-in record is left untouched.
	query := `
		INSERT INTO attendance_records (employee_id, date, check_in, status)
		VALUES ($1, $2, $3, 'present')
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in = EXCLUDED.check_in,
			status = 'present',
			updated_at = NOW()
		WHERE attendance_records.check_in IS NULL
		RETURNING ` + attendanceColumns

	record, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to check in: %w", err)
	}

	return record, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckOut(ctx context.Context, employeeID string, date time.Time, at time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out = $3, updated_at = NOW()
		WHERE employee_id = $1
		  AND date = $2
		  AND check_in IS NOT NULL
		  AND check_out IS NULL
		  AND check_in <= $3
		RETURNING ` + attendanceColumns

	record, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, at))
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Record{}, fmt.Errorf("failed to check out: %w", err)
	}

	// Nothing matched: read the row back to say why.
	current, err := a.GetByEmployeeAndDate(ctx, employeeID, date)
	switch {
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.Record{}, attendance.ErrNoCheckIn
	case err != nil:
		return attendance.Record{}, err
	case !current.HasCheckIn():
		return attendance.Record{}, attendance.ErrNoCheckIn
	case current.HasCheckOut():
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	default:
		return attendance.Record{}, attendance.ErrCheckOutBeforeCheckIn
	}
}

// MarkStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkStatus(ctx context.Context, employeeID string, date time.Time, status attendance.Status) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (employee_id, date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING ` + attendanceColumns

	record, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceExists
		}
		return attendance.Record{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
	`

	record, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if isMissing(err) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return record, nil
}

// ListRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return []attendance.Record{}, nil
		}
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return []attendance.Record{}, nil
		}
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}

	return records, nil
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var (
		record   attendance.Record
		status   string
		checkIn  *time.Time
		checkOut *time.Time
	)

	if err := row.Scan(
		&record.ID, &record.EmployeeID, &record.Date, &checkIn, &checkOut, &status,
		&record.CreatedAt, &record.UpdatedAt,
	); err != nil {
		return attendance.Record{}, err
	}

	record.Date = attendance.DateOf(record.Date, time.UTC)
	record.Status = attendance.Status(status)
	record.CheckIn = utcPtr(checkIn)
	record.CheckOut = utcPtr(checkOut)
	return record, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
