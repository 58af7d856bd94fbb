package report

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// RegisterRow is one employee in the payroll register.
type RegisterRow struct {
	EmployeeID    string          `json:"employee_id"`
	EmployeeCode  string          `json:"employee_code"`
	EmployeeName  string          `json:"employee_name"`
	Status        string          `json:"status"`
	WorkingDays   int             `json:"working_days"`
	PresentDays   int             `json:"present_days"`
	LeaveDays     int             `json:"leave_days"`
	ExtraMinutes  int             `json:"extra_minutes"`
	Gross         decimal.Decimal `json:"gross"`
	Deductions    decimal.Decimal `json:"deductions"`
	Net           decimal.Decimal `json:"net"`
	EmployerCost  decimal.Decimal `json:"employer_cost"`
	FailureReason string          `json:"failure_reason,omitempty"`
}

// Register is the per-payrun payroll register. Totals cover computed lines only.
type Register struct {
	PayrunID          string          `json:"payrun_id"`
	DisplayName       string          `json:"display_name"`
	Status            string          `json:"status"`
	GeneratedAt       time.Time       `json:"generated_at"`
	Rows              []RegisterRow   `json:"rows"`
	TotalGross        decimal.Decimal `json:"total_gross"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalNet          decimal.Decimal `json:"total_net"`
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
}

// ReportService defines the interface for payroll report generation
type ReportService interface {
	// PayrollRegister builds the register of a payrun
	PayrollRegister(ctx context.Context, actor identity.Identity, payrunID string) (Register, error)

	// ExportPayrollRegister writes the register as an XLSX workbook and returns its file name
	ExportPayrollRegister(ctx context.Context, actor identity.Identity, payrunID string, w io.Writer) (string, error)
}
