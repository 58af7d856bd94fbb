package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
)

type EmployeeRepository struct {
	store *Store
}

var _ employee.EmployeeRepository = (*EmployeeRepository)(nil)

// GetByID implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *EmployeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.activeEmployeesLocked(), nil
}

// CountActive implements employee.EmployeeRepository.
func (r *EmployeeRepository) CountActive(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n := 0
	for _, e := range r.store.employees {
		if e.Active {
			n++
		}
	}
	return n, nil
}

func (s *Store) activeEmployeesLocked() []employee.Employee {
	out := make([]employee.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if e.Active {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeCode == out[j].EmployeeCode {
			return out[i].ID < out[j].ID
		}
		return out[i].EmployeeCode < out[j].EmployeeCode
	})
	return out
}
