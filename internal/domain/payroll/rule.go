package payroll

import (
	"github.com/shopspring/decimal"
)

// RuleKind says where a resolved component lands on the payroll line.
type RuleKind string

const (
	KindEarning      RuleKind = "earning"
	KindDeduction    RuleKind = "deduction"
	KindEmployerCost RuleKind = "employer_cost"
)

func (k RuleKind) Valid() bool {
	switch k {
	case KindEarning, KindDeduction, KindEmployerCost:
		return true
	}
	return false
}

// ValueType says how a rule's value is turned into an amount.
type ValueType string

const (
	// ValueBasic is the base rule: Value percent of the employee's wage.
	ValueBasic ValueType = "basic"
	// ValueFixed is a literal amount.
	ValueFixed ValueType = "fixed"
	// ValuePercentOfBasic is Value percent of the resolved basic.
	ValuePercentOfBasic ValueType = "percent_of_basic"
)

func (v ValueType) Valid() bool {
	switch v {
	case ValueBasic, ValueFixed, ValuePercentOfBasic:
		return true
	}
	return false
}

// CompensationRule is one ordered component of a salary structure.
type CompensationRule struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Kind      RuleKind        `json:"kind"`
	ValueType ValueType       `json:"value_type"`
	Value     decimal.Decimal `json:"value"`
}

// LineItem is a resolved rule amount.
type LineItem struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Kind   RuleKind        `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// ExtraHoursCode identifies the earning line produced from worked overtime.
const ExtraHoursCode = "EXTRA_HOURS"
