package payroll

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixedAmounts(items []payroll.LineItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Amount.StringFixed(2))
	}
	return out
}

func testPolicy() payroll.Policy {
	return payroll.Policy{
		ExtraHoursThreshold: 8 * time.Hour,
		CutoffHour:          17,
		CutoffMinute:        0,
		ExtraHourRate:       dec("200"),
		ProrationEnabled:    true,
		Location:            time.UTC,
	}
}

func basicHRAPF() []payroll.CompensationRule {
	return []payroll.CompensationRule{
		{Code: "BASIC", Name: "Basic", Kind: payroll.KindEarning, ValueType: payroll.ValueBasic, Value: dec("100")},
		{Code: "HRA", Name: "HRA", Kind: payroll.KindEarning, ValueType: payroll.ValuePercentOfBasic, Value: dec("50")},
		{Code: "PF_EE", Name: "PF Employee", Kind: payroll.KindDeduction, ValueType: payroll.ValuePercentOfBasic, Value: dec("12")},
	}
}

func fullMonth() attendance.WorkedDays {
	return attendance.WorkedDays{WorkingDays: 22, PresentDays: 22}
}

func TestResolve_BasicHRAPFScenario(t *testing.T) {
	r := NewResolver(testPolicy())

	c, err := r.Resolve(dec("50000"), basicHRAPF(), fullMonth(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"50000.00", "25000.00"}, fixedAmounts(c.Earnings))
	assert.Equal(t, []string{"6000.00"}, fixedAmounts(c.Deductions))
	assert.Equal(t, "75000.00", c.Gross.StringFixed(2))
	assert.Equal(t, "6000.00", c.TotalDeductions.StringFixed(2))
	assert.Equal(t, "69000.00", c.Net.StringFixed(2))
	assert.Equal(t, 0, c.ExtraMinutes)
	assert.True(t, c.ProrationFactor.Equal(decimal.NewFromInt(1)))
}

func TestResolve_ProratesEarningsOnly(t *testing.T) {
	r := NewResolver(testPolicy())
	worked := attendance.WorkedDays{WorkingDays: 22, PresentDays: 18, AbsentDays: 4}

	c, err := r.Resolve(dec("50000"), basicHRAPF(), worked, nil)
	require.NoError(t, err)

	// 50000 * 18/22 and 25000 * 18/22, each rounded to 2 decimals
	assert.Equal(t, []string{"40909.09", "20454.55"}, fixedAmounts(c.Earnings))
	assert.Equal(t, []string{"6000.00"}, fixedAmounts(c.Deductions))
	assert.Equal(t, "61363.64", c.Gross.StringFixed(2))
	assert.Equal(t, "55363.64", c.Net.StringFixed(2))
	assert.Equal(t, dec("18").Div(dec("22")).String(), c.ProrationFactor.String())
}

func TestResolve_LeaveCountsAsPaid(t *testing.T) {
	r := NewResolver(testPolicy())
	worked := attendance.WorkedDays{WorkingDays: 22, PresentDays: 20, LeaveDays: 2}

	c, err := r.Resolve(dec("50000"), basicHRAPF(), worked, nil)
	require.NoError(t, err)

	assert.Equal(t, "75000.00", c.Gross.StringFixed(2))
}

func TestResolve_ProrationDisabled(t *testing.T) {
	policy := testPolicy()
	policy.ProrationEnabled = false
	r := NewResolver(policy)

	c, err := r.Resolve(dec("50000"), basicHRAPF(), attendance.WorkedDays{WorkingDays: 22, PresentDays: 10}, nil)
	require.NoError(t, err)

	assert.Equal(t, "75000.00", c.Gross.StringFixed(2))
}

func TestResolve_ExtraHours(t *testing.T) {
	r := NewResolver(testPolicy())
	in := time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, time.November, 3, 19, 30, 0, 0, time.UTC)
	daily := []attendance.Record{{EmployeeID: "e1", Date: attendance.DateOf(in, time.UTC), CheckIn: &in, CheckOut: &out, Status: attendance.StatusPresent}}

	c, err := r.Resolve(dec("50000"), basicHRAPF(), fullMonth(), daily)
	require.NoError(t, err)

	assert.Equal(t, 150, c.ExtraMinutes)
	require.Len(t, c.Earnings, 3)
	extra := c.Earnings[2]
	assert.Equal(t, payroll.ExtraHoursCode, extra.Code)
	// 2.5h at 200 per hour
	assert.Equal(t, "500.00", extra.Amount.StringFixed(2))
	assert.Equal(t, "75500.00", c.Gross.StringFixed(2))
}

func TestExtraMinutes_Edges(t *testing.T) {
	r := NewResolver(testPolicy())
	day := func(h1, m1, h2, m2 int) attendance.Record {
		in := time.Date(2025, time.November, 4, h1, m1, 0, 0, time.UTC)
		out := time.Date(2025, time.November, 4, h2, m2, 0, 0, time.UTC)
		return attendance.Record{CheckIn: &in, CheckOut: &out}
	}
	open := func() attendance.Record {
		in := time.Date(2025, time.November, 5, 9, 0, 0, 0, time.UTC)
		return attendance.Record{CheckIn: &in}
	}

	tests := []struct {
		name string
		recs []attendance.Record
		want int
	}{
		{"exactly threshold earns nothing", []attendance.Record{day(9, 0, 17, 0)}, 0},
		{"long day ending before cutoff", []attendance.Record{day(6, 0, 16, 30)}, 0},
		{"short day past cutoff", []attendance.Record{day(12, 0, 18, 0)}, 0},
		{"open session ignored", []attendance.Record{open()}, 0},
		{"summed across days", []attendance.Record{day(9, 0, 19, 30), day(8, 0, 18, 0)}, 210},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ExtraMinutes(tt.recs))
		})
	}
}

func TestExtraMinutes_UsesPolicyLocation(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	policy := testPolicy()
	policy.Location = ist
	r := NewResolver(policy)

	// 09:00 to 19:30 IST expressed in UTC
	in := time.Date(2025, time.November, 3, 3, 30, 0, 0, time.UTC)
	out := time.Date(2025, time.November, 3, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, 150, r.ExtraMinutes([]attendance.Record{{CheckIn: &in, CheckOut: &out}}))
}

func TestResolve_FixedAndEmployerCost(t *testing.T) {
	r := NewResolver(testPolicy())
	rules := []payroll.CompensationRule{
		{Code: "STD", Name: "Standard Allowance", Kind: payroll.KindEarning, ValueType: payroll.ValueFixed, Value: dec("4167")},
		{Code: "BASIC", Name: "Basic", Kind: payroll.KindEarning, ValueType: payroll.ValueBasic, Value: dec("100")},
		{Code: "PF_ER", Name: "PF Employer", Kind: payroll.KindEmployerCost, ValueType: payroll.ValuePercentOfBasic, Value: dec("12")},
		{Code: "PT", Name: "Professional Tax", Kind: payroll.KindDeduction, ValueType: payroll.ValueFixed, Value: dec("200")},
	}

	c, err := r.Resolve(dec("30000"), rules, fullMonth(), nil)
	require.NoError(t, err)

	// Declaration order is kept even though basic resolves first
	assert.Equal(t, "STD", c.Earnings[0].Code)
	assert.Equal(t, []string{"4167.00", "30000.00"}, fixedAmounts(c.Earnings))
	assert.Equal(t, "3600.00", c.EmployerCost.StringFixed(2))
	assert.Equal(t, "200.00", c.TotalDeductions.StringFixed(2))
	assert.Equal(t, "33967.00", c.Net.StringFixed(2))
}

func TestResolve_ValidationErrors(t *testing.T) {
	r := NewResolver(testPolicy())

	tests := []struct {
		name  string
		wage  decimal.Decimal
		rules []payroll.CompensationRule
		want  error
	}{
		{"zero wage", decimal.Zero, basicHRAPF(), payroll.ErrInvalidBasicWage},
		{"negative wage", dec("-1"), basicHRAPF(), payroll.ErrInvalidBasicWage},
		{"empty structure", dec("1000"), nil, payroll.ErrEmptyStructure},
		{
			"percent without basic", dec("1000"),
			[]payroll.CompensationRule{{Code: "HRA", Kind: payroll.KindEarning, ValueType: payroll.ValuePercentOfBasic, Value: dec("50")}},
			payroll.ErrUnresolvedBase,
		},
		{
			"two basics", dec("1000"),
			append(basicHRAPF(), payroll.CompensationRule{Code: "BASIC2", Kind: payroll.KindEarning, ValueType: payroll.ValueBasic, Value: dec("10")}),
			payroll.ErrDuplicateBase,
		},
		{
			"negative value", dec("1000"),
			[]payroll.CompensationRule{{Code: "X", Kind: payroll.KindEarning, ValueType: payroll.ValueFixed, Value: dec("-5")}},
			payroll.ErrInvalidRule,
		},
		{
			"unknown kind", dec("1000"),
			[]payroll.CompensationRule{{Code: "X", Kind: "bonus", ValueType: payroll.ValueFixed, Value: dec("5")}},
			payroll.ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.wage, tt.rules, fullMonth(), nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver(testPolicy())
	in := time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, time.November, 3, 19, 30, 0, 0, time.UTC)
	daily := []attendance.Record{{CheckIn: &in, CheckOut: &out}}
	worked := attendance.WorkedDays{WorkingDays: 22, PresentDays: 17, LeaveDays: 1, AbsentDays: 4}

	first, err := r.Resolve(dec("48250.75"), basicHRAPF(), worked, daily)
	require.NoError(t, err)
	second, err := r.Resolve(dec("48250.75"), basicHRAPF(), worked, daily)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestResolve_NetIsGrossMinusDeductions(t *testing.T) {
	r := NewResolver(testPolicy())
	rng := rand.New(rand.NewSource(42))
	valueTypes := []payroll.ValueType{payroll.ValueFixed, payroll.ValuePercentOfBasic}
	kinds := []payroll.RuleKind{payroll.KindEarning, payroll.KindDeduction, payroll.KindEmployerCost}

	for i := 0; i < 200; i++ {
		rules := []payroll.CompensationRule{
			{Code: "BASIC", Kind: payroll.KindEarning, ValueType: payroll.ValueBasic, Value: decimal.NewFromInt(int64(rng.Intn(100) + 1))},
		}
		for j := 0; j < rng.Intn(8); j++ {
			rules = append(rules, payroll.CompensationRule{
				Code:      "R" + decimal.NewFromInt(int64(j)).String(),
				Kind:      kinds[rng.Intn(len(kinds))],
				ValueType: valueTypes[rng.Intn(len(valueTypes))],
				Value:     decimal.NewFromFloat(rng.Float64() * 100).Round(3),
			})
		}
		working := rng.Intn(27) + 1
		present := rng.Intn(working + 1)
		worked := attendance.WorkedDays{WorkingDays: working, PresentDays: present}
		wage := decimal.NewFromFloat(rng.Float64()*200000 + 1).Round(2)

		c, err := r.Resolve(wage, rules, worked, nil)
		require.NoError(t, err)

		assert.True(t, c.Gross.Sub(c.TotalDeductions).Equal(c.Net), "iteration %d", i)
		assert.True(t, sum(c.Earnings).Equal(c.Gross), "iteration %d", i)
	}
}
