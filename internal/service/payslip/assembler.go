package payslip

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/money"
)

const (
	displayDate = "02 Jan 2006"
	notProvided = "-"
)

// DocumentAssembler lays a stored line out as a payslip. It formats amounts
// but never computes them.
type DocumentAssembler struct {
	companyName string
	money       *money.Formatter
}

func NewAssembler(companyName string, formatter *money.Formatter) *DocumentAssembler {
	return &DocumentAssembler{companyName: companyName, money: formatter}
}

var _ payslip.Assembler = (*DocumentAssembler)(nil)

func (a *DocumentAssembler) Assemble(line payroll.Line, emp employee.Employee, run payroll.Payrun) (payslip.Document, error) {
	if line.Status == payroll.LineStatusFailed {
		return payslip.Document{}, payroll.ErrLineFailed
	}

	return payslip.Document{
		PayrunID:   run.ID,
		EmployeeID: emp.ID,
		Header: payslip.HeaderBlock{
			CompanyName: a.companyName,
			Title:       fmt.Sprintf("Salary slip for month of %s %d", run.PeriodStart().Month(), run.Year),
		},
		Identity:           a.identity(emp, run),
		WorkedDays:         a.workedDays(line),
		EarningsDeductions: a.earningsDeductions(line),
		NetPayable: payslip.NetPayableBlock{
			Title:      "Total Net Payable",
			Formula:    "(Gross Earning - Total deductions)",
			Gross:      a.money.Format(line.Gross),
			Deductions: a.money.Format(line.TotalDeductions),
			Net:        a.money.FormatSigned(line.Net),
			Expression: fmt.Sprintf("%s - %s = %s",
				a.money.Format(line.Gross),
				a.money.Format(line.TotalDeductions),
				a.money.FormatSigned(line.Net)),
		},
	}, nil
}

func (a *DocumentAssembler) identity(emp employee.Employee, run payroll.Payrun) payslip.IdentityBlock {
	joined := notProvided
	if emp.JoiningDate != nil {
		joined = emp.JoiningDate.Format(displayDate)
	}

	return payslip.IdentityBlock{
		Left: []payslip.Field{
			{Label: "Employee name", Value: orDash(emp.FullName)},
			{Label: "Employee Code", Value: orDash(emp.EmployeeCode)},
			{Label: "Department", Value: orDash(emp.Department)},
			{Label: "Location", Value: orDash(emp.Location)},
			{Label: "Date of joining", Value: joined},
		},
		Right: []payslip.Field{
			{Label: "PAN", Value: orDash(emp.PAN)},
			{Label: "UAN", Value: orDash(emp.UAN)},
			{Label: "Bank A/c NO.", Value: orDash(emp.MaskedBankAccount())},
			{Label: "Pay period", Value: run.PeriodStart().Format(displayDate) + " To " + run.PeriodEnd().Format(displayDate)},
			{Label: "Pay date", Value: run.PeriodEnd().Format(displayDate)},
		},
	}
}

func (a *DocumentAssembler) workedDays(line payroll.Line) payslip.WorkedDaysBlock {
	return payslip.WorkedDaysBlock{
		Headers: [2]string{"Worked Days", "Number of Days"},
		Rows: []payslip.Field{
			{Label: "Attendance", Value: fmt.Sprintf("%.2f Days", float64(line.WorkedDays.PaidDays()))},
			{Label: "Total", Value: fmt.Sprintf("%.2f Days", float64(line.WorkedDays.WorkingDays))},
		},
	}
}

// earningsDeductions pairs earnings and deductions row by row.
func (a *DocumentAssembler) earningsDeductions(line payroll.Line) payslip.EarningsDeductionsBlock {
	n := max(len(line.Earnings), len(line.Deductions))
	rows := make([]payslip.EarningsDeductionsRow, n)

	for i := range rows {
		if i < len(line.Earnings) {
			e := line.Earnings[i]
			rows[i].Earning = &payslip.AmountCell{Name: e.Name, Amount: a.money.Format(e.Amount)}
		}
		if i < len(line.Deductions) {
			d := line.Deductions[i]
			rows[i].Deduction = &payslip.AmountCell{Name: d.Name, Amount: a.money.FormatDeduction(d.Amount)}
		}
	}

	return payslip.EarningsDeductionsBlock{
		Headers:         [4]string{"Earnings", "Amounts", "Deductions", "Amounts"},
		Rows:            rows,
		Gross:           payslip.AmountCell{Name: "Gross", Amount: a.money.Format(line.Gross)},
		TotalDeductions: payslip.AmountCell{Name: "Total deductions", Amount: a.money.FormatDeduction(line.TotalDeductions)},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}
