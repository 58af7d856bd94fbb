package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var (
		migrationsDir = flag.String("dir", "migrations", "directory containing migration files")
		databaseURL   = flag.String("database", os.Getenv("DATABASE_URL"), "postgres url (defaults to the DB_* settings)")
		steps         = flag.Int("steps", 0, "apply n migrations instead of all (negative rolls back)")
	)
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	dsn := *databaseURL
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		dsn = cfg.DatabaseURL()
	}

	if err := runMigration(action, *migrationsDir, dsn, *steps); err != nil {
		slog.Error("migration failed", "action", action, "error", err)
		os.Exit(1)
	}
	slog.Info("migration completed", "action", action)
}

func runMigration(action, dir, dsn string, steps int) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if steps != 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps != 0 {
			err = m.Steps(-abs(steps))
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			slog.Info("no migration applied")
			return nil
		}
		if verr != nil {
			return verr
		}
		slog.Info("schema version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
