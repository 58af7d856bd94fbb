package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const lineSelect = `
		SELECT l.id, l.payrun_id, l.employee_id,
			   l.earnings, l.deductions, l.employer_costs,
			   l.gross, l.total_deductions, l.net, l.employer_cost,
			   l.worked_days, l.extra_minutes, l.status, l.failure_reason, l.computed_at,
			   e.full_name, e.employee_code
		FROM payroll_lines l
		LEFT JOIN employees e ON e.id = l.employee_id
`

type payrollLineRepository struct {
	db database.Querier
	tm *TransactionManager
}

func NewPayrollLineRepository(db database.Pool) payroll.PayrollLineRepository {
	return &payrollLineRepository{db: db, tm: NewTransactionManager(db)}
}

// Upsert implements payroll.PayrollLineRepository.
func (r *payrollLineRepository) Upsert(ctx context.Context, line payroll.Line) (payroll.Line, error) {
	earnings, err := json.Marshal(line.Earnings)
	if err != nil {
		return payroll.Line{}, fmt.Errorf("failed to marshal earnings: %w", err)
	}
	deductions, err := json.Marshal(line.Deductions)
	if err != nil {
		return payroll.Line{}, fmt.Errorf("failed to marshal deductions: %w", err)
	}
	employerCosts, err := json.Marshal(line.EmployerCosts)
	if err != nil {
		return payroll.Line{}, fmt.Errorf("failed to marshal employer costs: %w", err)
	}
	workedDays, err := json.Marshal(line.WorkedDays)
	if err != nil {
		return payroll.Line{}, fmt.Errorf("failed to marshal worked days: %w", err)
	}

	var saved payroll.Line
	err = r.tm.WithinReadWrite(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		// The shared row lock keeps a concurrent status change waiting until this write commits.
		var status string
		err := q.QueryRow(ctx, `SELECT status FROM payruns WHERE id = $1 FOR SHARE`, line.PayrunID).Scan(&status)
		if err != nil {
			if isMissing(err) {
				return payroll.ErrPayrunNotFound
			}
			return fmt.Errorf("failed to lock payrun: %w", err)
		}
		if !payroll.PayrunStatus(status).Open() {
			return payroll.ErrPayrunClosed
		}

		query := `
			INSERT INTO payroll_lines (
				payrun_id, employee_id, earnings, deductions, employer_costs,
				gross, total_deductions, net, employer_cost,
				worked_days, extra_minutes, status, failure_reason, computed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (employee_id, payrun_id) DO UPDATE SET
				earnings = EXCLUDED.earnings,
				deductions = EXCLUDED.deductions,
				employer_costs = EXCLUDED.employer_costs,
				gross = EXCLUDED.gross,
				total_deductions = EXCLUDED.total_deductions,
				net = EXCLUDED.net,
				employer_cost = EXCLUDED.employer_cost,
				worked_days = EXCLUDED.worked_days,
				extra_minutes = EXCLUDED.extra_minutes,
				status = EXCLUDED.status,
				failure_reason = EXCLUDED.failure_reason,
				computed_at = EXCLUDED.computed_at
			RETURNING id
		`

		var id string
		err = q.QueryRow(ctx, query,
			line.PayrunID, line.EmployeeID, earnings, deductions, employerCosts,
			line.Gross, line.TotalDeductions, line.Net, line.EmployerCost,
			workedDays, line.ExtraMinutes, string(line.Status), line.FailureReason, line.ComputedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to upsert payroll line: %w", err)
		}

		saved, err = scanLine(q.QueryRow(ctx, lineSelect+` WHERE l.id = $1`, id))
		if err != nil {
			return fmt.Errorf("failed to reload payroll line: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.Line{}, err
	}

	return saved, nil
}

// GetByPayrunAndEmployee implements payroll.PayrollLineRepository.
func (r *payrollLineRepository) GetByPayrunAndEmployee(ctx context.Context, payrunID, employeeID string) (payroll.Line, error) {
	q := GetQuerier(ctx, r.db)

	query := lineSelect + ` WHERE l.payrun_id = $1 AND l.employee_id = $2`

	line, err := scanLine(q.QueryRow(ctx, query, payrunID, employeeID))
	if err != nil {
		if isMissing(err) {
			return payroll.Line{}, payroll.ErrPayrollLineNotFound
		}
		return payroll.Line{}, fmt.Errorf("failed to get payroll line: %w", err)
	}
	return line, nil
}

// ListByPayrun implements payroll.PayrollLineRepository.
func (r *payrollLineRepository) ListByPayrun(ctx context.Context, payrunID string) ([]payroll.Line, error) {
	q := GetQuerier(ctx, r.db)

	query := lineSelect + `
		WHERE l.payrun_id = $1
		ORDER BY e.employee_code ASC, l.employee_id ASC
	`

	rows, err := q.Query(ctx, query, payrunID)
	if err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return []payroll.Line{}, nil
		}
		return nil, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	defer rows.Close()

	lines := []payroll.Line{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return []payroll.Line{}, nil
		}
		return nil, fmt.Errorf("failed to iterate payroll lines: %w", err)
	}

	return lines, nil
}

func scanLine(row pgx.Row) (payroll.Line, error) {
	var (
		line                                payroll.Line
		earnings, deductions, employerCosts []byte
		workedDays                          []byte
		status                              string
		employeeName, employeeCode          sql.NullString
	)

	if err := row.Scan(
		&line.ID, &line.PayrunID, &line.EmployeeID,
		&earnings, &deductions, &employerCosts,
		&line.Gross, &line.TotalDeductions, &line.Net, &line.EmployerCost,
		&workedDays, &line.ExtraMinutes, &status, &line.FailureReason, &line.ComputedAt,
		&employeeName, &employeeCode,
	); err != nil {
		return payroll.Line{}, err
	}

	line.Status = payroll.LineStatus(status)
	if employeeName.Valid {
		line.EmployeeName = &employeeName.String
	}
	if employeeCode.Valid {
		line.EmployeeCode = &employeeCode.String
	}

	decode := []struct {
		name string
		raw  []byte
		dst  interface{}
	}{
		{"earnings", earnings, &line.Earnings},
		{"deductions", deductions, &line.Deductions},
		{"employer_costs", employerCosts, &line.EmployerCosts},
		{"worked_days", workedDays, &line.WorkedDays},
	}
	for _, d := range decode {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dst); err != nil {
			return payroll.Line{}, fmt.Errorf("failed to decode %s: %w", d.name, err)
		}
	}

	return line, nil
}
