package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type structureFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	ValueType string `yaml:"value_type"`
	Value     string `yaml:"value"`
}

// LoadSalaryStructure reads the company default structure. A missing file
// yields DefaultSalaryStructure.
func LoadSalaryStructure(path string) ([]payroll.CompensationRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSalaryStructure(), nil
		}
		return nil, fmt.Errorf("read salary structure %s: %w", path, err)
	}
	return ParseSalaryStructure(data)
}

func ParseSalaryStructure(data []byte) ([]payroll.CompensationRule, error) {
	var file structureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse salary structure: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("salary structure has no rules")
	}

	rules := make([]payroll.CompensationRule, 0, len(file.Rules))
	for i, entry := range file.Rules {
		value, err := decimal.NewFromString(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): invalid value %q: %w", i, entry.Code, entry.Value, err)
		}
		rule := payroll.CompensationRule{
			Code:      entry.Code,
			Name:      entry.Name,
			Kind:      payroll.RuleKind(entry.Kind),
			ValueType: payroll.ValueType(entry.ValueType),
			Value:     value,
		}
		if !rule.Kind.Valid() {
			return nil, fmt.Errorf("rule %d (%s): unknown kind %q", i, entry.Code, entry.Kind)
		}
		if !rule.ValueType.Valid() {
			return nil, fmt.Errorf("rule %d (%s): unknown value_type %q", i, entry.Code, entry.ValueType)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// DefaultSalaryStructure mirrors configs/salary_structure.yaml.
func DefaultSalaryStructure() []payroll.CompensationRule {
	pct := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }
	return []payroll.CompensationRule{
		{Code: "BASIC", Name: "Basic Salary", Kind: payroll.KindEarning, ValueType: payroll.ValueBasic, Value: pct("100")},
		{Code: "HRA", Name: "House Rent Allowance", Kind: payroll.KindEarning, ValueType: payroll.ValuePercentOfBasic, Value: pct("50")},
		{Code: "STD", Name: "Standard Allowance", Kind: payroll.KindEarning, ValueType: payroll.ValueFixed, Value: pct("4167")},
		{Code: "PB", Name: "Performance Bonus", Kind: payroll.KindEarning, ValueType: payroll.ValuePercentOfBasic, Value: pct("8.33")},
		{Code: "LTA", Name: "Leave Travel Allowance", Kind: payroll.KindEarning, ValueType: payroll.ValuePercentOfBasic, Value: pct("8.33")},
		{Code: "FA", Name: "Fixed Allowance", Kind: payroll.KindEarning, ValueType: payroll.ValueFixed, Value: pct("2000")},
		{Code: "PF_EE", Name: "PF Employee", Kind: payroll.KindDeduction, ValueType: payroll.ValuePercentOfBasic, Value: pct("12")},
		{Code: "PT", Name: "Professional Tax", Kind: payroll.KindDeduction, ValueType: payroll.ValueFixed, Value: pct("200")},
		{Code: "PF_ER", Name: "PF Employer", Kind: payroll.KindEmployerCost, ValueType: payroll.ValuePercentOfBasic, Value: pct("12")},
	}
}
