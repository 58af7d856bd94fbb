package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	employeeRepo employee.EmployeeRepository
	payrunRepo   payroll.PayrunRepository
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	employeeRepo employee.EmployeeRepository,
	payrunRepo payroll.PayrunRepository,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		employeeRepo:        employeeRepo,
		payrunRepo:          payrunRepo,
	}
}

// monthKey counts months from year zero so windows can cross year boundaries.
type monthKey int

func keyOf(year, month int) monthKey {
	return monthKey(year*12 + month - 1)
}

func (k monthKey) year() int  { return int(k) / 12 }
func (k monthKey) month() int { return int(k)%12 + 1 }

func (k monthKey) label() string {
	return time.Date(k.year(), time.Month(k.month()), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// resolveWindow applies the default and bounds of the trailing window.
func resolveWindow(window int) (int, error) {
	if window == 0 {
		return dashboard.DefaultWindow, nil
	}
	if window < 1 || window > dashboard.MaxWindow {
		return 0, dashboard.ErrInvalidWindow
	}
	return window, nil
}

func windowBounds(window int, now time.Time) (monthKey, monthKey) {
	last := keyOf(now.Year(), int(now.Month()))
	return last - monthKey(window-1), last
}

func (s *DashboardServiceImpl) Warnings(ctx context.Context, actor identity.Identity) (dashboard.Warnings, error) {
	if err := actor.Require(identity.PermissionDashboardView); err != nil {
		return dashboard.Warnings{}, err
	}
	return s.warnings(ctx)
}

func (s *DashboardServiceImpl) warnings(ctx context.Context) (dashboard.Warnings, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return dashboard.Warnings{}, fmt.Errorf("failed to list employees: %w", err)
	}

	w := dashboard.Warnings{
		EmployeesWithoutBank:    make([]employee.Ref, 0),
		EmployeesWithoutManager: make([]employee.Ref, 0),
	}
	for _, e := range employees {
		if !e.HasBankAccount() {
			w.EmployeesWithoutBank = append(w.EmployeesWithoutBank, e.Ref())
		}
		if !e.HasManager() {
			w.EmployeesWithoutManager = append(w.EmployeesWithoutManager, e.Ref())
		}
	}
	return w, nil
}

func (s *DashboardServiceImpl) MonthlySeries(ctx context.Context, actor identity.Identity, window int, now time.Time) ([]dashboard.MonthlyStat, error) {
	if err := actor.Require(identity.PermissionDashboardView); err != nil {
		return nil, err
	}
	window, err := resolveWindow(window)
	if err != nil {
		return nil, err
	}
	return s.monthlySeries(ctx, window, now)
}

// monthlySeries returns one entry per month of the window, oldest first,
// with zero values for months without payroll.
func (s *DashboardServiceImpl) monthlySeries(ctx context.Context, window int, now time.Time) ([]dashboard.MonthlyStat, error) {
	first, last := windowBounds(window, now)

	totals, err := s.MonthlyTotals(ctx, first.year(), first.month(), last.year(), last.month())
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly totals: %w", err)
	}

	byMonth := make(map[monthKey]dashboard.MonthlyTotal, len(totals))
	for _, t := range totals {
		byMonth[keyOf(t.Year, t.Month)] = t
	}

	series := make([]dashboard.MonthlyStat, 0, window)
	for k := first; k <= last; k++ {
		stat := dashboard.MonthlyStat{
			Month:        k.label(),
			Year:         k.year(),
			MonthNumber:  k.month(),
			EmployerCost: decimal.Zero,
		}
		if t, ok := byMonth[k]; ok {
			stat.EmployerCost = t.Gross
			stat.EmployeeCount = t.EmployeeCount
		}
		series = append(series, stat)
	}
	return series, nil
}

// Stats returns the full payroll dashboard using parallel goroutines.
func (s *DashboardServiceImpl) Stats(ctx context.Context, actor identity.Identity, window int, now time.Time) (dashboard.StatsResponse, error) {
	if err := actor.Require(identity.PermissionDashboardView); err != nil {
		return dashboard.StatsResponse{}, err
	}
	window, err := resolveWindow(window)
	if err != nil {
		return dashboard.StatsResponse{}, err
	}

	var (
		warnings dashboard.Warnings
		series   []dashboard.MonthlyStat
		payruns  []payroll.Payrun
		total    int
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employees missing bank details or a manager
	g.Go(func() error {
		w, err := s.warnings(gCtx)
		if err != nil {
			return err
		}
		warnings = w
		return nil
	})

	// 2. Monthly employer cost series
	g.Go(func() error {
		data, err := s.monthlySeries(gCtx, window, now)
		if err != nil {
			return err
		}
		series = data
		return nil
	})

	// 3. Payruns in the window, newest first
	g.Go(func() error {
		list, _, err := s.payrunRepo.List(gCtx, payroll.PayrunFilter{})
		if err != nil {
			return fmt.Errorf("failed to list payruns: %w", err)
		}
		first, last := windowBounds(window, now)
		for _, p := range list {
			if k := keyOf(p.Year, p.Month); k >= first && k <= last {
				payruns = append(payruns, p)
			}
		}
		return nil
	})

	// 4. Headcount
	g.Go(func() error {
		n, err := s.employeeRepo.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		total = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.StatsResponse{}, err
	}

	return dashboard.StatsResponse{
		Warnings:       warnings,
		MonthlyStats:   series,
		Payruns:        payroll.NewPayrunResponses(payruns),
		TotalEmployees: total,
	}, nil
}
