// Package memory holds mutex-guarded repositories used by tests and by the
// APP_STORE=memory backend. Every write takes the single store lock so the
// conditional semantics match the PostgreSQL statements.
package memory

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/google/uuid"
)

type attendanceKey struct {
	employeeID string
	date       time.Time
}

type lineKey struct {
	payrunID   string
	employeeID string
}

type Store struct {
	mu sync.RWMutex

	employees  map[string]employee.Employee
	attendance map[attendanceKey]attendance.Record
	payruns    map[string]payroll.Payrun
	lines      map[lineKey]payroll.Line

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		employees:  make(map[string]employee.Employee),
		attendance: make(map[attendanceKey]attendance.Record),
		payruns:    make(map[string]payroll.Payrun),
		lines:      make(map[lineKey]payroll.Line),
		now:        time.Now,
	}
}

// PutEmployee inserts or replaces an employee. Employees are owned by the HR
// records service, so this is the only write path.
func (s *Store) PutEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = newID()
	}
	now := s.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	s.employees[e.ID] = e
	return e
}

func (s *Store) Attendance() *AttendanceRepository {
	return &AttendanceRepository{store: s}
}

func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{store: s}
}

func (s *Store) Payruns() *PayrunRepository {
	return &PayrunRepository{store: s}
}

func (s *Store) Lines() *PayrollLineRepository {
	return &PayrollLineRepository{store: s}
}

func (s *Store) Dashboard() *DashboardRepository {
	return &DashboardRepository{store: s}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func timePtr(t time.Time) *time.Time {
	return &t
}
