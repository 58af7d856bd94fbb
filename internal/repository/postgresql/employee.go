package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, employee_code, full_name, email, department, location, designation,
		basic_wage, bank_name, bank_account_number, manager_id, pan, uan, joining_date,
		active, salary_rules, created_at, updated_at`

type employeeRepository struct {
	db database.Querier
}

func NewEmployeeRepository(db database.Querier) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if isMissing(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE active = TRUE
		ORDER BY employee_code ASC, id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// CountActive implements employee.EmployeeRepository.
func (e *employeeRepository) CountActive(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, e.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp         employee.Employee
		managerID   sql.NullString
		joiningDate *time.Time
		rulesJSON   []byte
	)

	if err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.Department, &emp.Location, &emp.Designation,
		&emp.BasicWage, &emp.BankName, &emp.BankAccountNumber, &managerID, &emp.PAN, &emp.UAN, &joiningDate,
		&emp.Active, &rulesJSON, &emp.CreatedAt, &emp.UpdatedAt,
	); err != nil {
		return employee.Employee{}, err
	}

	if managerID.Valid {
		emp.ManagerID = &managerID.String
	}
	emp.JoiningDate = utcPtr(joiningDate)

	if len(rulesJSON) > 0 {
		var rules []payroll.CompensationRule
		if err := json.Unmarshal(rulesJSON, &rules); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to decode salary rules of %s: %w", emp.ID, err)
		}
		emp.SalaryRules = rules
	}

	return emp, nil
}
