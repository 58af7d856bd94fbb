package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type DashboardRepository struct {
	store *Store
}

var _ dashboard.DashboardRepository = (*DashboardRepository)(nil)

// MonthlyTotals implements dashboard.DashboardRepository.
func (r *DashboardRepository) MonthlyTotals(ctx context.Context, fromYear, fromMonth, toYear, toMonth int) ([]dashboard.MonthlyTotal, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	from := fromYear*12 + fromMonth
	to := toYear*12 + toMonth

	type bucket struct {
		gross     decimal.Decimal
		employees map[string]struct{}
	}
	buckets := make(map[int]*bucket)

	for key, line := range s.lines {
		if line.Status != payroll.LineStatusComputed {
			continue
		}
		p, ok := s.payruns[key.payrunID]
		if !ok || p.Status == payroll.PayrunStatusCancelled {
			continue
		}
		period := p.Year*12 + p.Month
		if period < from || period > to {
			continue
		}

		b, ok := buckets[period]
		if !ok {
			b = &bucket{gross: decimal.Zero, employees: make(map[string]struct{})}
			buckets[period] = b
		}
		b.gross = b.gross.Add(line.Gross)
		b.employees[line.EmployeeID] = struct{}{}
	}

	out := make([]dashboard.MonthlyTotal, 0, len(buckets))
	for period, b := range buckets {
		year, month := (period-1)/12, (period-1)%12+1
		out = append(out, dashboard.MonthlyTotal{
			Year:          year,
			Month:         month,
			Gross:         b.gross,
			EmployeeCount: len(b.employees),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}
