package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Employee is the read model the payroll core consumes. It is owned by the
// HR records service.
type Employee struct {
	ID                string
	EmployeeCode      string
	FullName          string
	Email             string
	Department        string
	Location          string
	Designation       string
	BasicWage         decimal.Decimal
	BankName          string
	BankAccountNumber string
	ManagerID         *string
	PAN               string
	UAN               string
	JoiningDate       *time.Time
	Active            bool

	// SalaryRules overrides the company default structure when non-empty.
	SalaryRules []payroll.CompensationRule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBankAccount is true when both the account number and the bank name are filled.
func (e Employee) HasBankAccount() bool {
	return strings.TrimSpace(e.BankAccountNumber) != "" && strings.TrimSpace(e.BankName) != ""
}

func (e Employee) HasManager() bool {
	return e.ManagerID != nil && strings.TrimSpace(*e.ManagerID) != ""
}

// MaskedBankAccount keeps the last four digits of the account number.
func (e Employee) MaskedBankAccount() string {
	acc := strings.TrimSpace(e.BankAccountNumber)
	if len(acc) <= 4 {
		return acc
	}
	return strings.Repeat("X", len(acc)-4) + acc[len(acc)-4:]
}

// Rules returns the employee's own structure, falling back to def.
func (e Employee) Rules(def []payroll.CompensationRule) []payroll.CompensationRule {
	if len(e.SalaryRules) > 0 {
		return e.SalaryRules
	}
	return def
}

// Ref is the minimal identity used in warning lists.
type Ref struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
}

func (e Employee) Ref() Ref {
	return Ref{ID: e.ID, EmployeeCode: e.EmployeeCode, FullName: e.FullName}
}
