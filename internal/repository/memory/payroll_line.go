package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

type PayrollLineRepository struct {
	store *Store
}

var _ payroll.PayrollLineRepository = (*PayrollLineRepository)(nil)

// Upsert implements payroll.PayrollLineRepository.
func (r *PayrollLineRepository) Upsert(ctx context.Context, line payroll.Line) (payroll.Line, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	payrun, ok := s.payruns[line.PayrunID]
	if !ok {
		return payroll.Line{}, payroll.ErrPayrunNotFound
	}
	if !payrun.Status.Open() {
		return payroll.Line{}, payroll.ErrPayrunClosed
	}

	key := lineKey{payrunID: line.PayrunID, employeeID: line.EmployeeID}
	if existing, exists := s.lines[key]; exists {
		line.ID = existing.ID
	} else {
		line.ID = newID()
	}

	s.lines[key] = line
	return s.joinEmployeeLocked(line), nil
}

// GetByPayrunAndEmployee implements payroll.PayrollLineRepository.
func (r *PayrollLineRepository) GetByPayrunAndEmployee(ctx context.Context, payrunID, employeeID string) (payroll.Line, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.lines[lineKey{payrunID: payrunID, employeeID: employeeID}]
	if !ok {
		return payroll.Line{}, payroll.ErrPayrollLineNotFound
	}
	return s.joinEmployeeLocked(line), nil
}

// ListByPayrun implements payroll.PayrollLineRepository.
func (r *PayrollLineRepository) ListByPayrun(ctx context.Context, payrunID string) ([]payroll.Line, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]payroll.Line, 0)
	for key, line := range s.lines {
		if key.payrunID == payrunID {
			out = append(out, s.joinEmployeeLocked(line))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		ci, cj := deref(out[i].EmployeeCode), deref(out[j].EmployeeCode)
		if ci == cj {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return ci < cj
	})
	return out, nil
}

func (s *Store) joinEmployeeLocked(line payroll.Line) payroll.Line {
	if e, ok := s.employees[line.EmployeeID]; ok {
		name, code := e.FullName, e.EmployeeCode
		line.EmployeeName = &name
		line.EmployeeCode = &code
	}
	return line
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
