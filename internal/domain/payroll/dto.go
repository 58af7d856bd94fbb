package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PAYRUN DTOs ==========

type CreatePayrunRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *CreatePayrunRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPayrollYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayrunStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdatePayrunStatusRequest) Validate() error {
	if !PayrunStatus(r.Status).Valid() {
		return validator.ValidationErrors{{Field: "status", Message: "must be one of draft, processing, completed, cancelled"}}
	}
	return nil
}

type PayrunResponse struct {
	ID          string       `json:"id"`
	Month       int          `json:"month"`
	Year        int          `json:"year"`
	DisplayName string       `json:"display_name"`
	PeriodStart string       `json:"period_start"`
	PeriodEnd   string       `json:"period_end"`
	Status      PayrunStatus `json:"status"`
	StatusLabel string       `json:"status_label"`
	LineCount   int          `json:"line_count"`
	FailedCount int          `json:"failed_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func NewPayrunResponse(p Payrun) PayrunResponse {
	return PayrunResponse{
		ID:          p.ID,
		Month:       p.Month,
		Year:        p.Year,
		DisplayName: p.DisplayName(),
		PeriodStart: p.PeriodStart().Format("2006-01-02"),
		PeriodEnd:   p.PeriodEnd().Format("2006-01-02"),
		Status:      p.Status,
		StatusLabel: p.StatusLabel(),
		LineCount:   p.LineCount,
		FailedCount: p.FailedCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewPayrunResponses(payruns []Payrun) []PayrunResponse {
	out := make([]PayrunResponse, 0, len(payruns))
	for _, p := range payruns {
		out = append(out, NewPayrunResponse(p))
	}
	return out
}

// ========== LINE DTOs ==========

type LineResponse struct {
	ID              string                `json:"id"`
	PayrunID        string                `json:"payrun_id"`
	EmployeeID      string                `json:"employee_id"`
	EmployeeName    *string               `json:"employee_name,omitempty"`
	EmployeeCode    *string               `json:"employee_code,omitempty"`
	Earnings        []LineItem            `json:"earnings"`
	Deductions      []LineItem            `json:"deductions"`
	EmployerCosts   []LineItem            `json:"employer_costs"`
	Gross           decimal.Decimal       `json:"gross"`
	TotalDeductions decimal.Decimal       `json:"total_deductions"`
	Net             decimal.Decimal       `json:"net"`
	EmployerCost    decimal.Decimal       `json:"employer_cost"`
	WorkedDays      attendance.WorkedDays `json:"worked_days"`
	ExtraMinutes    int                   `json:"extra_minutes"`
	Status          LineStatus            `json:"status"`
	FailureReason   string                `json:"failure_reason,omitempty"`
	ComputedAt      time.Time             `json:"computed_at"`
}

func NewLineResponse(l Line) LineResponse {
	return LineResponse{
		ID:              l.ID,
		PayrunID:        l.PayrunID,
		EmployeeID:      l.EmployeeID,
		EmployeeName:    l.EmployeeName,
		EmployeeCode:    l.EmployeeCode,
		Earnings:        l.Earnings,
		Deductions:      l.Deductions,
		EmployerCosts:   l.EmployerCosts,
		Gross:           l.Gross,
		TotalDeductions: l.TotalDeductions,
		Net:             l.Net,
		EmployerCost:    l.EmployerCost,
		WorkedDays:      l.WorkedDays,
		ExtraMinutes:    l.ExtraMinutes,
		Status:          l.Status,
		FailureReason:   l.FailureReason,
		ComputedAt:      l.ComputedAt,
	}
}

func NewLineResponses(lines []Line) []LineResponse {
	out := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, NewLineResponse(l))
	}
	return out
}

// ========== COMPUTE DTOs ==========

type LineFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type ComputeResult struct {
	Payrun   PayrunResponse `json:"payrun"`
	Computed int            `json:"computed"`
	Failed   int            `json:"failed"`
	Failures []LineFailure  `json:"failures"`
}
