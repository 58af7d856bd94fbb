package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// payrunsOpenPeriodKey is the partial unique index on (month, year) of non-cancelled payruns.
const payrunsOpenPeriodKey = "payruns_open_period_key"

const payrunSelect = `
		SELECT p.id, p.month, p.year, p.status, p.created_by, p.created_at, p.updated_at,
			   COUNT(l.id) AS line_count,
			   COUNT(l.id) FILTER (WHERE l.status = 'failed') AS failed_count
		FROM payruns p
		LEFT JOIN payroll_lines l ON l.payrun_id = p.id
`

type payrunRepository struct {
	db database.Querier
}

func NewPayrunRepository(db database.Querier) payroll.PayrunRepository {
	return &payrunRepository{db: db}
}

// Create implements payroll.PayrunRepository.
func (p *payrunRepository) Create(ctx context.Context, payrun payroll.Payrun) (payroll.Payrun, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO payruns (month, year, status, created_by)
		VALUES ($1, $2, 'draft', $3)
		RETURNING id, status, created_at, updated_at
	`

	var status string
	err := q.QueryRow(ctx, query, payrun.Month, payrun.Year, payrun.CreatedBy).
		Scan(&payrun.ID, &status, &payrun.CreatedAt, &payrun.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, payrunsOpenPeriodKey) {
			return payroll.Payrun{}, payroll.ErrPayrunExists
		}
		return payroll.Payrun{}, fmt.Errorf("failed to create payrun: %w", err)
	}

	payrun.Status = payroll.PayrunStatus(status)
	payrun.LineCount = 0
	payrun.FailedCount = 0
	return payrun, nil
}

// GetByID implements payroll.PayrunRepository.
func (p *payrunRepository) GetByID(ctx context.Context, id string) (payroll.Payrun, error) {
	q := GetQuerier(ctx, p.db)

	query := payrunSelect + `
		WHERE p.id = $1
		GROUP BY p.id
	`

	run, err := scanPayrun(q.QueryRow(ctx, query, id))
	if err != nil {
		if isMissing(err) {
			return payroll.Payrun{}, payroll.ErrPayrunNotFound
		}
		return payroll.Payrun{}, fmt.Errorf("failed to get payrun: %w", err)
	}
	return run, nil
}

// List implements payroll.PayrunRepository.
func (p *payrunRepository) List(ctx context.Context, filter payroll.PayrunFilter) ([]payroll.Payrun, int64, error) {
	q := GetQuerier(ctx, p.db)

	where := ""
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = fmt.Sprintf(" WHERE p.status = $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM payruns p" + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payruns: %w", err)
	}

	query := payrunSelect + where + `
		GROUP BY p.id
		ORDER BY p.year DESC, p.month DESC, p.created_at DESC
	`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payruns: %w", err)
	}
	defer rows.Close()

	runs := []payroll.Payrun{}
	for rows.Next() {
		run, err := scanPayrun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payrun: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payruns: %w", err)
	}

	return runs, total, nil
}

// Transition implements payroll.PayrunRepository.
func (p *payrunRepository) Transition(ctx context.Context, id string, from []payroll.PayrunStatus, to payroll.PayrunStatus) (payroll.Payrun, error) {
	q := GetQuerier(ctx, p.db)

	sources := make([]string, len(from))
	for i, s := range from {
		sources[i] = string(s)
	}

	query := `
		UPDATE payruns
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = ANY($2)
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, sources, string(to)).Scan(&updatedID)
	if err != nil {
		if database.IsInvalidTextRepresentation(err) {
			return payroll.Payrun{}, payroll.ErrPayrunNotFound
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payrun{}, fmt.Errorf("failed to transition payrun: %w", err)
		}
		// Either the payrun is missing or its status was not a legal source.
		if _, getErr := p.GetByID(ctx, id); getErr != nil {
			return payroll.Payrun{}, getErr
		}
		return payroll.Payrun{}, payroll.ErrInvalidTransition
	}

	return p.GetByID(ctx, updatedID)
}

func scanPayrun(row pgx.Row) (payroll.Payrun, error) {
	var (
		run    payroll.Payrun
		status string
	)
	if err := row.Scan(
		&run.ID, &run.Month, &run.Year, &status, &run.CreatedBy, &run.CreatedAt, &run.UpdatedAt,
		&run.LineCount, &run.FailedCount,
	); err != nil {
		return payroll.Payrun{}, err
	}
	run.Status = payroll.PayrunStatus(status)
	return run, nil
}
