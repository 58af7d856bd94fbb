package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the computation constants that vary between deployments.
type Policy struct {
	// Days whose session is longer than ExtraHoursThreshold earn extra hours
	// for the minutes worked past the cutoff on that day.
	ExtraHoursThreshold time.Duration
	CutoffHour          int
	CutoffMinute        int
	// ExtraHourRate is paid per extra hour.
	ExtraHourRate decimal.Decimal
	// ProrationEnabled scales earnings by paid days / working days when the
	// employee was absent.
	ProrationEnabled bool
	// Location is the time zone calendar days and cutoffs are evaluated in.
	Location *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		ExtraHoursThreshold: 8 * time.Hour,
		CutoffHour:          17,
		CutoffMinute:        0,
		ExtraHourRate:       decimal.NewFromInt(100),
		ProrationEnabled:    true,
		Location:            time.UTC,
	}
}

// Loc returns the configured time zone, UTC when unset.
func (p Policy) Loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
