package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// PAN is the Indian permanent account number: five letters, four digits, one letter.
var panRegex = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

func IsValidPAN(pan string) bool {
	return panRegex.MatchString(strings.ToUpper(strings.TrimSpace(pan)))
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// IsValidPayrollYear bounds the years a payrun may be created for.
func IsValidPayrollYear(year int) bool {
	return year >= 2000 && year <= 2100
}

// ParseDateRange parses an inclusive YYYY-MM-DD range. Empty values fall back
// to the month containing now.
func ParseDateRange(startStr, endStr string, now time.Time) (time.Time, time.Time, ValidationErrors) {
	var errs ValidationErrors

	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	if !IsEmpty(startStr) {
		parsed, ok := IsValidDate(startStr)
		if !ok {
			errs = append(errs, ValidationError{Field: "start", Message: "must be in YYYY-MM-DD format"})
		} else {
			start = parsed
		}
	}
	if !IsEmpty(endStr) {
		parsed, ok := IsValidDate(endStr)
		if !ok {
			errs = append(errs, ValidationError{Field: "end", Message: "must be in YYYY-MM-DD format"})
		} else {
			end = parsed
		}
	}
	if len(errs) == 0 && start.After(end) {
		errs = append(errs, ValidationError{Field: "start", Message: "must not be after end"})
	}

	return start, end, errs
}
