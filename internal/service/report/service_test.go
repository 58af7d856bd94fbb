package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var officer = identity.Identity{UserID: "u-officer", Role: identity.RolePayrollOfficer}

func seed(t *testing.T) (*memory.Store, payroll.Payrun) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Asha Rao", Active: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", EmployeeCode: "E002", FullName: "Ravi Iyer", Active: true})

	run, err := store.Payruns().Create(ctx, payroll.Payrun{Month: 11, Year: 2025})
	require.NoError(t, err)

	_, err = store.Lines().Upsert(ctx, payroll.Line{
		PayrunID:        run.ID,
		EmployeeID:      "emp-1",
		Gross:           decimal.RequireFromString("75000"),
		TotalDeductions: decimal.RequireFromString("6000"),
		Net:             decimal.RequireFromString("69000"),
		EmployerCost:    decimal.RequireFromString("6000"),
		WorkedDays:      attendance.WorkedDays{WorkingDays: 25, PresentDays: 25},
		Status:          payroll.LineStatusComputed,
	})
	require.NoError(t, err)
	_, err = store.Lines().Upsert(ctx, payroll.NewFailedLine(run.ID, "emp-2", "basic wage must be greater than zero", attendance.WorkedDays{WorkingDays: 25}, run.CreatedAt))
	require.NoError(t, err)

	return store, run
}

func TestPayrollRegister(t *testing.T) {
	store, run := seed(t)
	svc := NewReportService(store.Payruns(), store.Lines())

	reg, err := svc.PayrollRegister(context.Background(), officer, run.ID)
	require.NoError(t, err)

	assert.Equal(t, "Payrun for Nov 2025", reg.DisplayName)
	require.Len(t, reg.Rows, 2)
	assert.Equal(t, "E001", reg.Rows[0].EmployeeCode)
	assert.Equal(t, "failed", reg.Rows[1].Status)
	assert.Equal(t, "basic wage must be greater than zero", reg.Rows[1].FailureReason)
	assert.Equal(t, "75000.00", reg.TotalGross.StringFixed(2))
	assert.Equal(t, "69000.00", reg.TotalNet.StringFixed(2))

	staff := identity.Identity{UserID: "u-1", EmployeeID: "emp-1", Role: identity.RoleEmployee}
	_, err = svc.PayrollRegister(context.Background(), staff, run.ID)
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = svc.PayrollRegister(context.Background(), officer, "missing")
	assert.ErrorIs(t, err, payroll.ErrPayrunNotFound)
}

func TestExportPayrollRegister(t *testing.T) {
	store, run := seed(t)
	svc := NewReportService(store.Payruns(), store.Lines())

	var buf bytes.Buffer
	name, err := svc.ExportPayrollRegister(context.Background(), officer, run.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, "payroll-register-2025-11.xlsx", name)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{registerSheet}, f.GetSheetList())

	title, err := f.GetCellValue(registerSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Payrun for Nov 2025", title)

	header, err := f.GetCellValue(registerSheet, "H4")
	require.NoError(t, err)
	assert.Equal(t, "Gross", header)

	code, err := f.GetCellValue(registerSheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "E001", code)

	total, err := f.GetCellValue(registerSheet, "A7")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)

	gross, err := f.GetCellValue(registerSheet, "H7", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "75000", gross)
}
