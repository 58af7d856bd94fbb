package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("APP_STORE", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "memory", cfg.App.Store)
	assert.Equal(t, 8*time.Hour, cfg.Payroll.ExtraHoursThreshold)
	assert.Equal(t, "17:00", cfg.Payroll.ExtraHoursCutoff)
	assert.True(t, cfg.Payroll.ProrationEnabled)
	assert.Equal(t, "Odoo India", cfg.Payslip.CompanyName)
	assert.Equal(t, "local", cfg.Storage.Driver)
}

func TestLoad_PayrollOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYROLL_EXTRA_HOURS_THRESHOLD", "9h")
	t.Setenv("PAYROLL_EXTRA_HOURS_CUTOFF", "18:30")
	t.Setenv("PAYROLL_EXTRA_HOUR_RATE", "250.50")
	t.Setenv("PAYROLL_PRORATION_ENABLED", "false")
	t.Setenv("PAYROLL_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	policy, err := cfg.PayrollPolicy()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour, policy.ExtraHoursThreshold)
	assert.Equal(t, 18, policy.CutoffHour)
	assert.Equal(t, 30, policy.CutoffMinute)
	assert.True(t, policy.ExtraHourRate.Equal(decimal.RequireFromString("250.5")))
	assert.False(t, policy.ProrationEnabled)
	assert.Equal(t, "UTC", policy.Location.String())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "APP_PORT", "eighty"},
		{"bad threshold", "PAYROLL_EXTRA_HOURS_THRESHOLD", "eight hours"},
		{"bad cutoff", "PAYROLL_EXTRA_HOURS_CUTOFF", "5pm"},
		{"bad store", "APP_STORE", "mongo"},
		{"zero workers", "PAYROLL_WORKERS", "0"},
		{"bad timezone", "PAYROLL_TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_RequiresSecretsForPostgres(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_STORE", "postgres")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Name: "payroll", SSLMode: "disable",
	}}

	assert.Equal(t, "postgres://u:p@db:5432/payroll?sslmode=disable", cfg.DatabaseURL())
}

func TestParseSalaryStructure(t *testing.T) {
	data := []byte(`
rules:
  - code: BASIC
    name: Basic
    kind: earning
    value_type: basic
    value: "100"
  - code: HRA
    name: HRA
    kind: earning
    value_type: percent_of_basic
    value: 50
  - code: PF_EE
    name: PF Employee
    kind: deduction
    value_type: percent_of_basic
    value: "12"
`)

	rules, err := ParseSalaryStructure(data)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, payroll.ValueBasic, rules[0].ValueType)
	assert.True(t, rules[1].Value.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, payroll.KindDeduction, rules[2].Kind)
}

func TestParseSalaryStructure_Rejects(t *testing.T) {
	_, err := ParseSalaryStructure([]byte("rules: []"))
	assert.Error(t, err)

	_, err = ParseSalaryStructure([]byte(`
rules:
  - code: X
    kind: bonus
    value_type: fixed
    value: "1"
`))
	assert.ErrorContains(t, err, "unknown kind")

	_, err = ParseSalaryStructure([]byte(`
rules:
  - code: X
    kind: earning
    value_type: fixed
    value: "abc"
`))
	assert.ErrorContains(t, err, "invalid value")
}

func TestLoadSalaryStructure_MissingFileUsesDefault(t *testing.T) {
	rules, err := LoadSalaryStructure(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSalaryStructure(), rules)
}

func TestLoadSalaryStructure_ShippedFileMatchesDefault(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "salary_structure.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skip("shipped structure not found")
	}

	rules, err := LoadSalaryStructure(path)
	require.NoError(t, err)

	def := DefaultSalaryStructure()
	require.Len(t, rules, len(def))
	for i := range def {
		assert.Equal(t, def[i].Code, rules[i].Code)
		assert.Equal(t, def[i].Kind, rules[i].Kind)
		assert.True(t, def[i].Value.Equal(rules[i].Value), def[i].Code)
	}
}

func TestParseEmployeeSeed(t *testing.T) {
	employees, err := ParseEmployeeSeed([]byte(`
employees:
  - id: emp-1
    employee_code: E001
    full_name: Asha Rao
    basic_wage: "50000"
    bank_name: HDFC
    bank_account_number: "001234567890"
    pan: " abcpr1234k"
    joining_date: "2023-04-03"
  - employee_code: E002
    basic_wage: "40000"
    manager_id: emp-1
    inactive: true
`))
	require.NoError(t, err)
	require.Len(t, employees, 2)

	assert.Equal(t, "emp-1", employees[0].ID)
	assert.Equal(t, "ABCPR1234K", employees[0].PAN)
	assert.True(t, employees[0].BasicWage.Equal(decimal.NewFromInt(50000)))
	assert.True(t, employees[0].HasBankAccount())
	assert.False(t, employees[0].HasManager())
	require.NotNil(t, employees[0].JoiningDate)
	assert.Equal(t, 2023, employees[0].JoiningDate.Year())
	assert.True(t, employees[0].Active)

	assert.Empty(t, employees[1].ID)
	assert.True(t, employees[1].HasManager())
	assert.False(t, employees[1].Active)
}

func TestParseEmployeeSeed_Rejects(t *testing.T) {
	_, err := ParseEmployeeSeed([]byte("employees:\n  - employee_code: X\n    basic_wage: lots\n"))
	assert.ErrorContains(t, err, "invalid basic_wage")

	_, err = ParseEmployeeSeed([]byte("employees:\n  - employee_code: X\n    basic_wage: \"-1\"\n"))
	assert.ErrorContains(t, err, "must not be negative")

	_, err = ParseEmployeeSeed([]byte("employees:\n  - employee_code: X\n    basic_wage: \"1\"\n    joining_date: 03/04/2023\n"))
	assert.ErrorContains(t, err, "invalid joining_date")

	_, err = ParseEmployeeSeed([]byte("employees:\n  - employee_code: X\n    basic_wage: \"1\"\n    pan: ABC1234\n"))
	assert.ErrorContains(t, err, "invalid pan")
}

func TestLoadEmployeeSeed_MissingFile(t *testing.T) {
	employees, err := LoadEmployeeSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, employees)
}
