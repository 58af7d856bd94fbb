package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Employees []seedEmployee `yaml:"employees"`
}

type seedEmployee struct {
	ID                string `yaml:"id"`
	EmployeeCode      string `yaml:"employee_code"`
	FullName          string `yaml:"full_name"`
	Email             string `yaml:"email"`
	Department        string `yaml:"department"`
	Location          string `yaml:"location"`
	Designation       string `yaml:"designation"`
	BasicWage         string `yaml:"basic_wage"`
	BankName          string `yaml:"bank_name"`
	BankAccountNumber string `yaml:"bank_account_number"`
	ManagerID         string `yaml:"manager_id"`
	PAN               string `yaml:"pan"`
	UAN               string `yaml:"uan"`
	JoiningDate       string `yaml:"joining_date"`
	Inactive          bool   `yaml:"inactive"`
}

// LoadEmployeeSeed reads the employees used by the in-memory store. A missing
// file yields no employees.
func LoadEmployeeSeed(path string) ([]employee.Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read employee seed %s: %w", path, err)
	}
	return ParseEmployeeSeed(data)
}

func ParseEmployeeSeed(data []byte) ([]employee.Employee, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse employee seed: %w", err)
	}

	employees := make([]employee.Employee, 0, len(file.Employees))
	for i, entry := range file.Employees {
		wage, err := decimal.NewFromString(entry.BasicWage)
		if err != nil {
			return nil, fmt.Errorf("employee %d (%s): invalid basic_wage %q: %w", i, entry.EmployeeCode, entry.BasicWage, err)
		}
		if wage.IsNegative() {
			return nil, fmt.Errorf("employee %d (%s): basic_wage must not be negative", i, entry.EmployeeCode)
		}

		if entry.PAN != "" && !validator.IsValidPAN(entry.PAN) {
			return nil, fmt.Errorf("employee %d (%s): invalid pan %q", i, entry.EmployeeCode, entry.PAN)
		}

		emp := employee.Employee{
			ID:                entry.ID,
			EmployeeCode:      entry.EmployeeCode,
			FullName:          entry.FullName,
			Email:             entry.Email,
			Department:        entry.Department,
			Location:          entry.Location,
			Designation:       entry.Designation,
			BasicWage:         wage,
			BankName:          entry.BankName,
			BankAccountNumber: entry.BankAccountNumber,
			PAN:               strings.ToUpper(strings.TrimSpace(entry.PAN)),
			UAN:               entry.UAN,
			Active:            !entry.Inactive,
		}
		if entry.ManagerID != "" {
			manager := entry.ManagerID
			emp.ManagerID = &manager
		}
		if entry.JoiningDate != "" {
			joined, err := time.Parse("2006-01-02", entry.JoiningDate)
			if err != nil {
				return nil, fmt.Errorf("employee %d (%s): invalid joining_date %q", i, entry.EmployeeCode, entry.JoiningDate)
			}
			emp.JoiningDate = &joined
		}
		employees = append(employees, emp)
	}
	return employees, nil
}
