// Command devtoken prints an access token for local testing. Identities are
// issued by the platform's auth service in production.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
)

func main() {
	var (
		userID     = flag.String("user", "dev-user", "user id claim")
		employeeID = flag.String("employee", "", "employee id claim (optional)")
		role       = flag.String("role", "admin", "admin, hr, payroll_officer or employee")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	parsed, err := identity.ParseRole(*role)
	if err != nil {
		slog.Error("invalid role", "role", *role, "error", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(identity.Identity{UserID: *userID, EmployeeID: *employeeID, Role: parsed})
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		os.Exit(1)
	}

	slog.Info("token issued", "role", parsed, "expires_at", expiresAt)
	fmt.Println(token)
}
