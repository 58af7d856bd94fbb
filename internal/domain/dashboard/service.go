package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
)

// DashboardService defines the interface for payroll dashboard operations
type DashboardService interface {
	// Warnings lists employees missing bank details or a manager
	Warnings(ctx context.Context, actor identity.Identity) (Warnings, error)

	// MonthlySeries returns the trailing window of months ending at now, oldest first
	MonthlySeries(ctx context.Context, actor identity.Identity, window int, now time.Time) ([]MonthlyStat, error)

	// Stats returns warnings, the monthly series and recent payruns using goroutines
	Stats(ctx context.Context, actor identity.Identity, window int, now time.Time) (StatsResponse, error)
}

const (
	DefaultWindow = 3
	MaxWindow     = 24
)
