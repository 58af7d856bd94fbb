package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// compiledStructure is a validated salary structure split into its two passes.
// The base rule resolves first; every other rule resolves afterwards in
// declaration order, so percentage rules can never observe an unresolved base.
type compiledStructure struct {
	rules []payroll.CompensationRule
	base  int   // index of the basic rule, -1 when absent
	rest  []int // indexes of the remaining rules in declaration order
}

func compileStructure(rules []payroll.CompensationRule) (compiledStructure, error) {
	if len(rules) == 0 {
		return compiledStructure{}, payroll.ErrEmptyStructure
	}

	s := compiledStructure{rules: rules, base: -1}
	for i, r := range rules {
		if r.Code == "" {
			return compiledStructure{}, apperror.Validationf(payroll.ErrInvalidRule, "rule #%d has no code", i+1)
		}
		if !r.Kind.Valid() {
			return compiledStructure{}, apperror.Validationf(payroll.ErrInvalidRule, "rule %q has unknown kind %q", r.Code, r.Kind)
		}
		if !r.ValueType.Valid() {
			return compiledStructure{}, apperror.Validationf(payroll.ErrInvalidRule, "rule %q has unknown value type %q", r.Code, r.ValueType)
		}
		if r.Value.IsNegative() {
			return compiledStructure{}, apperror.Validationf(payroll.ErrInvalidRule, "rule %q has a negative value", r.Code)
		}

		if r.ValueType == payroll.ValueBasic {
			if s.base >= 0 {
				return compiledStructure{}, payroll.ErrDuplicateBase
			}
			if r.Kind != payroll.KindEarning {
				return compiledStructure{}, apperror.Validationf(payroll.ErrInvalidRule, "basic rule %q must be an earning", r.Code)
			}
			s.base = i
			continue
		}
		s.rest = append(s.rest, i)
	}

	if s.base < 0 {
		for _, i := range s.rest {
			if rules[i].ValueType == payroll.ValuePercentOfBasic {
				return compiledStructure{}, apperror.Validationf(payroll.ErrUnresolvedBase, "rule %q is a percentage of basic but the structure has no basic rule", rules[i].Code)
			}
		}
	}

	return s, nil
}

// resolveAmounts returns one amount per rule, index-aligned with the rules.
func (s compiledStructure) resolveAmounts(basicWage decimal.Decimal) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(s.rules))

	// Pass one: basic
	var basic decimal.Decimal
	if s.base >= 0 {
		basic = round2(basicWage.Mul(s.rules[s.base].Value).Div(hundred))
		amounts[s.base] = basic
	}

	// Pass two: everything else, in declaration order
	for _, i := range s.rest {
		r := s.rules[i]
		switch r.ValueType {
		case payroll.ValueFixed:
			amounts[i] = round2(r.Value)
		case payroll.ValuePercentOfBasic:
			amounts[i] = round2(basic.Mul(r.Value).Div(hundred))
		}
	}

	return amounts
}

// SalaryResolver implements payroll.Resolver. It holds no mutable state.
type SalaryResolver struct {
	policy payroll.Policy
}

func NewResolver(policy payroll.Policy) *SalaryResolver {
	return &SalaryResolver{policy: policy}
}

// Resolve computes one employee's earnings, deductions, gross and net.
func (r *SalaryResolver) Resolve(basicWage decimal.Decimal, rules []payroll.CompensationRule, worked attendance.WorkedDays, daily []attendance.Record) (payroll.Computation, error) {
	if !basicWage.IsPositive() {
		return payroll.Computation{}, payroll.ErrInvalidBasicWage
	}

	structure, err := compileStructure(rules)
	if err != nil {
		return payroll.Computation{}, err
	}
	amounts := structure.resolveAmounts(basicWage)

	c := payroll.Computation{
		Earnings:        []payroll.LineItem{},
		Deductions:      []payroll.LineItem{},
		EmployerCosts:   []payroll.LineItem{},
		ProrationFactor: decimal.NewFromInt(1),
	}
	for i, rule := range rules {
		item := payroll.LineItem{Code: rule.Code, Name: rule.Name, Kind: rule.Kind, Amount: amounts[i]}
		switch rule.Kind {
		case payroll.KindEarning:
			c.Earnings = append(c.Earnings, item)
		case payroll.KindDeduction:
			c.Deductions = append(c.Deductions, item)
		case payroll.KindEmployerCost:
			c.EmployerCosts = append(c.EmployerCosts, item)
		}
	}

	c.ExtraMinutes = r.ExtraMinutes(daily)
	if extra := r.extraHoursAmount(c.ExtraMinutes); extra.IsPositive() {
		c.Earnings = append(c.Earnings, payroll.LineItem{
			Code:   payroll.ExtraHoursCode,
			Name:   "Extra Hours",
			Kind:   payroll.KindEarning,
			Amount: extra,
		})
	}

	if r.policy.ProrationEnabled && worked.WorkingDays > 0 && worked.PaidDays() < worked.WorkingDays {
		paid := decimal.NewFromInt(int64(worked.PaidDays()))
		working := decimal.NewFromInt(int64(worked.WorkingDays))
		c.ProrationFactor = paid.Div(working)
		for i := range c.Earnings {
			c.Earnings[i].Amount = round2(c.Earnings[i].Amount.Mul(paid).Div(working))
		}
	}

	c.Gross = sum(c.Earnings)
	c.TotalDeductions = sum(c.Deductions)
	c.EmployerCost = sum(c.EmployerCosts)
	c.Net = c.Gross.Sub(c.TotalDeductions)

	return c, nil
}

// ExtraMinutes sums, over closed sessions longer than the threshold, the
// minutes worked past the cutoff on the check-in's calendar day.
func (r *SalaryResolver) ExtraMinutes(daily []attendance.Record) int {
	loc := r.policy.Loc()
	total := 0
	for _, rec := range daily {
		if rec.CheckIn == nil || rec.CheckOut == nil {
			continue
		}
		if rec.Worked() <= r.policy.ExtraHoursThreshold {
			continue
		}
		cutoff := attendance.At(attendance.DateOf(*rec.CheckIn, loc), r.policy.CutoffHour, r.policy.CutoffMinute, loc)
		if past := rec.CheckOut.Sub(cutoff); past > 0 {
			total += int(past / time.Minute)
		}
	}
	return total
}

func (r *SalaryResolver) extraHoursAmount(minutes int) decimal.Decimal {
	if minutes <= 0 || !r.policy.ExtraHourRate.IsPositive() {
		return decimal.Zero
	}
	return round2(decimal.NewFromInt(int64(minutes)).Mul(r.policy.ExtraHourRate).Div(decimal.NewFromInt(60)))
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func sum(items []payroll.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
