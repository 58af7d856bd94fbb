package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// PayrunStatus enum
type PayrunStatus string

const (
	PayrunStatusDraft      PayrunStatus = "draft"
	PayrunStatusProcessing PayrunStatus = "processing"
	PayrunStatusCompleted  PayrunStatus = "completed"
	PayrunStatusCancelled  PayrunStatus = "cancelled"
)

var payrunTransitions = map[PayrunStatus][]PayrunStatus{
	PayrunStatusDraft:      {PayrunStatusProcessing, PayrunStatusCancelled},
	PayrunStatusProcessing: {PayrunStatusCompleted, PayrunStatusCancelled},
}

func (s PayrunStatus) Valid() bool {
	switch s {
	case PayrunStatusDraft, PayrunStatusProcessing, PayrunStatusCompleted, PayrunStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s PayrunStatus) CanTransitionTo(next PayrunStatus) bool {
	for _, allowed := range payrunTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Open reports whether lines may still be written.
func (s PayrunStatus) Open() bool {
	return s == PayrunStatusDraft || s == PayrunStatusProcessing
}

// SourcesOf returns the statuses that may move to next.
func SourcesOf(next PayrunStatus) []PayrunStatus {
	var from []PayrunStatus
	for _, s := range []PayrunStatus{PayrunStatusDraft, PayrunStatusProcessing, PayrunStatusCompleted, PayrunStatusCancelled} {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

// Payrun is a payroll batch for one calendar month.
type Payrun struct {
	ID          string
	Month       int
	Year        int
	Status      PayrunStatus
	LineCount   int
	FailedCount int
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Payrun) PeriodStart() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodEnd is the last calendar day of the month.
func (p Payrun) PeriodEnd() time.Time {
	return p.PeriodStart().AddDate(0, 1, -1)
}

// DisplayName renders e.g. "Payrun for Nov 2025".
func (p Payrun) DisplayName() string {
	return "Payrun for " + p.PeriodStart().Format("Jan 2006")
}

// StatusLabel adds the failure count to completed runs so failed employees are never hidden.
func (p Payrun) StatusLabel() string {
	if p.FailedCount > 0 && (p.Status == PayrunStatusCompleted || p.Status == PayrunStatusProcessing) {
		return fmt.Sprintf("%s with %d failures", p.Status, p.FailedCount)
	}
	return string(p.Status)
}

// LineStatus enum
type LineStatus string

const (
	LineStatusComputed LineStatus = "computed"
	LineStatusFailed   LineStatus = "failed"
)

// Line is one employee's result within a payrun.
type Line struct {
	ID              string
	PayrunID        string
	EmployeeID      string
	Earnings        []LineItem
	Deductions      []LineItem
	EmployerCosts   []LineItem
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	EmployerCost    decimal.Decimal
	WorkedDays      attendance.WorkedDays
	ExtraMinutes    int
	Status          LineStatus
	FailureReason   string
	ComputedAt      time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// Computation is the resolver's output for one employee.
type Computation struct {
	Earnings        []LineItem
	Deductions      []LineItem
	EmployerCosts   []LineItem
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	EmployerCost    decimal.Decimal
	ExtraMinutes    int
	ProrationFactor decimal.Decimal
}

// NewComputedLine snapshots a computation onto a line.
func NewComputedLine(payrunID, employeeID string, c Computation, worked attendance.WorkedDays, at time.Time) Line {
	return Line{
		PayrunID:        payrunID,
		EmployeeID:      employeeID,
		Earnings:        c.Earnings,
		Deductions:      c.Deductions,
		EmployerCosts:   c.EmployerCosts,
		Gross:           c.Gross,
		TotalDeductions: c.TotalDeductions,
		Net:             c.Net,
		EmployerCost:    c.EmployerCost,
		WorkedDays:      worked,
		ExtraMinutes:    c.ExtraMinutes,
		Status:          LineStatusComputed,
		ComputedAt:      at,
	}
}

// NewFailedLine records why an employee could not be computed. Amounts are zero.
func NewFailedLine(payrunID, employeeID string, reason string, worked attendance.WorkedDays, at time.Time) Line {
	return Line{
		PayrunID:        payrunID,
		EmployeeID:      employeeID,
		Earnings:        []LineItem{},
		Deductions:      []LineItem{},
		EmployerCosts:   []LineItem{},
		Gross:           decimal.Zero,
		TotalDeductions: decimal.Zero,
		Net:             decimal.Zero,
		EmployerCost:    decimal.Zero,
		WorkedDays:      worked,
		Status:          LineStatusFailed,
		FailureReason:   reason,
		ComputedAt:      at,
	}
}
