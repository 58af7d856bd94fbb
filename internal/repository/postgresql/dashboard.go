package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
)

type dashboardRepository struct {
	db database.Querier
}

func NewDashboardRepository(db database.Querier) dashboard.DashboardRepository {
	return &dashboardRepository{db: db}
}

// MonthlyTotals implements dashboard.DashboardRepository.
func (d *dashboardRepository) MonthlyTotals(ctx context.Context, fromYear, fromMonth, toYear, toMonth int) ([]dashboard.MonthlyTotal, error) {
	q := GetQuerier(ctx, d.db)

	// Periods compare as year*12 + month.
	query := `
		SELECT p.year, p.month,
			   COALESCE(SUM(l.gross), 0) AS gross,
			   COUNT(DISTINCT l.employee_id) AS employee_count
		FROM payruns p
		JOIN payroll_lines l ON l.payrun_id = p.id AND l.status = 'computed'
		WHERE p.status <> 'cancelled'
		  AND (p.year * 12 + p.month) BETWEEN $1 AND $2
		GROUP BY p.year, p.month
		ORDER BY p.year ASC, p.month ASC
	`

	rows, err := q.Query(ctx, query, fromYear*12+fromMonth, toYear*12+toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer rows.Close()

	totals := []dashboard.MonthlyTotal{}
	for rows.Next() {
		var t dashboard.MonthlyTotal
		if err := rows.Scan(&t.Year, &t.Month, &t.Gross, &t.EmployeeCount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly totals: %w", err)
	}

	return totals, nil
}
