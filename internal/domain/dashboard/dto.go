package dashboard

import (
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// The payroll dashboard contract uses camelCase keys.

type Warnings struct {
	EmployeesWithoutBank    []employee.Ref `json:"employeesWithoutBank"`
	EmployeesWithoutManager []employee.Ref `json:"employeesWithoutManager"`
}

type MonthlyStat struct {
	Month         string          `json:"month"` // "Nov 2025"
	Year          int             `json:"year"`
	MonthNumber   int             `json:"monthNumber"`
	EmployerCost  decimal.Decimal `json:"employerCost"`
	EmployeeCount int             `json:"employeeCount"`
}

type StatsResponse struct {
	Warnings       Warnings                 `json:"warnings"`
	MonthlyStats   []MonthlyStat            `json:"monthlyStats"`
	Payruns        []payroll.PayrunResponse `json:"payruns"`
	TotalEmployees int                      `json:"totalEmployees"`
}
