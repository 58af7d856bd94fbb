package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the employee does not exist
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListActive returns active employees ordered by employee code
	ListActive(ctx context.Context) ([]Employee, error)
	// CountActive returns the number of active employees
	CountActive(ctx context.Context) (int, error)
}
