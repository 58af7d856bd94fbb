package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/report"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	payrunRepo payroll.PayrunRepository
	lineRepo   payroll.PayrollLineRepository
	now        func() time.Time
}

func NewReportService(payrunRepo payroll.PayrunRepository, lineRepo payroll.PayrollLineRepository) report.ReportService {
	return &ReportServiceImpl{
		payrunRepo: payrunRepo,
		lineRepo:   lineRepo,
		now:        time.Now,
	}
}

// PayrollRegister lists every line of a payrun. Failed lines appear with their
// reason and are left out of the totals.
func (s *ReportServiceImpl) PayrollRegister(ctx context.Context, actor identity.Identity, payrunID string) (report.Register, error) {
	if err := actor.Require(identity.PermissionPayrunView); err != nil {
		return report.Register{}, err
	}

	run, err := s.payrunRepo.GetByID(ctx, payrunID)
	if err != nil {
		return report.Register{}, err
	}

	lines, err := s.lineRepo.ListByPayrun(ctx, payrunID)
	if err != nil {
		return report.Register{}, fmt.Errorf("failed to list payroll lines: %w", err)
	}

	reg := report.Register{
		PayrunID:          run.ID,
		DisplayName:       run.DisplayName(),
		Status:            run.StatusLabel(),
		GeneratedAt:       s.now().UTC(),
		Rows:              make([]report.RegisterRow, 0, len(lines)),
		TotalGross:        decimal.Zero,
		TotalDeductions:   decimal.Zero,
		TotalNet:          decimal.Zero,
		TotalEmployerCost: decimal.Zero,
	}

	for _, l := range lines {
		row := report.RegisterRow{
			EmployeeID:    l.EmployeeID,
			EmployeeCode:  deref(l.EmployeeCode),
			EmployeeName:  deref(l.EmployeeName),
			Status:        string(l.Status),
			WorkingDays:   l.WorkedDays.WorkingDays,
			PresentDays:   l.WorkedDays.PresentDays,
			LeaveDays:     l.WorkedDays.LeaveDays,
			ExtraMinutes:  l.ExtraMinutes,
			Gross:         l.Gross,
			Deductions:    l.TotalDeductions,
			Net:           l.Net,
			EmployerCost:  l.EmployerCost,
			FailureReason: l.FailureReason,
		}
		reg.Rows = append(reg.Rows, row)

		if l.Status != payroll.LineStatusComputed {
			continue
		}
		reg.TotalGross = reg.TotalGross.Add(l.Gross)
		reg.TotalDeductions = reg.TotalDeductions.Add(l.TotalDeductions)
		reg.TotalNet = reg.TotalNet.Add(l.Net)
		reg.TotalEmployerCost = reg.TotalEmployerCost.Add(l.EmployerCost)
	}

	return reg, nil
}

// ExportPayrollRegister writes the register workbook to w.
func (s *ReportServiceImpl) ExportPayrollRegister(ctx context.Context, actor identity.Identity, payrunID string, w io.Writer) (string, error) {
	reg, err := s.PayrollRegister(ctx, actor, payrunID)
	if err != nil {
		return "", err
	}

	run, err := s.payrunRepo.GetByID(ctx, payrunID)
	if err != nil {
		return "", err
	}

	if err := writeRegisterXLSX(w, reg); err != nil {
		return "", err
	}
	return fmt.Sprintf("payroll-register-%s.xlsx", run.PeriodStart().Format("2006-01")), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
