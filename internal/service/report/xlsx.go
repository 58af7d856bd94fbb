package report

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const registerSheet = "Register"

var registerHeaders = []string{
	"Employee Code", "Employee Name", "Status", "Working Days", "Present Days", "Leave Days",
	"Extra Minutes", "Gross", "Deductions", "Net", "Employer Cost", "Failure Reason",
}

// amountFormat is the built-in "#,##0.00" number format.
const amountFormat = 4

func writeRegisterXLSX(w io.Writer, reg report.Register) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(registerSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: amountFormat})
	if err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(registerHeaders))

	f.SetCellValue(registerSheet, "A1", reg.DisplayName)
	f.SetCellStyle(registerSheet, "A1", "A1", titleStyle)
	f.SetCellValue(registerSheet, "A2", fmt.Sprintf("Status: %s", reg.Status))
	f.SetCellValue(registerSheet, "D2", fmt.Sprintf("Generated: %s", reg.GeneratedAt.Format("2006-01-02 15:04 MST")))

	const headerRow = 4
	for i, h := range registerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(registerSheet, cell, h)
	}
	f.SetCellStyle(registerSheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)
	f.SetRowHeight(registerSheet, headerRow, 22)

	row := headerRow + 1
	for _, r := range reg.Rows {
		values := []interface{}{
			r.EmployeeCode, r.EmployeeName, r.Status, r.WorkingDays, r.PresentDays, r.LeaveDays,
			r.ExtraMinutes, amount(r.Gross), amount(r.Deductions), amount(r.Net), amount(r.EmployerCost), r.FailureReason,
		}
		if err := f.SetSheetRow(registerSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		f.SetCellStyle(registerSheet, fmt.Sprintf("H%d", row), fmt.Sprintf("K%d", row), amountStyle)
		row++
	}

	f.SetCellValue(registerSheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(registerSheet, fmt.Sprintf("H%d", row), amount(reg.TotalGross))
	f.SetCellValue(registerSheet, fmt.Sprintf("I%d", row), amount(reg.TotalDeductions))
	f.SetCellValue(registerSheet, fmt.Sprintf("J%d", row), amount(reg.TotalNet))
	f.SetCellValue(registerSheet, fmt.Sprintf("K%d", row), amount(reg.TotalEmployerCost))
	f.SetCellStyle(registerSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("K%d", row), totalStyle)

	f.SetColWidth(registerSheet, "A", "A", 15)
	f.SetColWidth(registerSheet, "B", "B", 25)
	f.SetColWidth(registerSheet, "C", "G", 13)
	f.SetColWidth(registerSheet, "H", "K", 16)
	f.SetColWidth(registerSheet, "L", "L", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
