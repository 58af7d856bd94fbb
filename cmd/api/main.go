package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/money"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/payroll-engine/internal/service/dashboard"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	payslipService "github.com/cmlabs-hris/payroll-engine/internal/service/payslip"
	reportService "github.com/cmlabs-hris/payroll-engine/internal/service/report"
)

type repositories struct {
	attendance attendance.AttendanceRepository
	employees  employee.EmployeeRepository
	payruns    payroll.PayrunRepository
	lines      payroll.PayrollLineRepository
	dashboard  dashboard.DashboardRepository
	close      func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.App.LogLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := cfg.PayrollPolicy()
	if err != nil {
		return err
	}
	defaultRules, err := config.LoadSalaryStructure(cfg.Payroll.StructurePath)
	if err != nil {
		return err
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	var (
		fileStorage storage.FileStorage
		files       http.Handler
	)
	switch cfg.Storage.Driver {
	case "local":
		local, err := storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("init local storage: %w", err)
		}
		fileStorage = local
		files = http.FileServer(http.Dir(local.Root()))
	case "s3":
		fileStorage, err = storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			PublicURL: cfg.Storage.S3PublicURL,
		})
		if err != nil {
			return fmt.Errorf("init s3 storage: %w", err)
		}
	}

	hub := sse.NewHub(64)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employees, policy.Location)
	payrunSvc := payrollService.NewPayrunService(
		repos.payruns,
		repos.lines,
		repos.employees,
		attendanceService.NewAggregator(repos.attendance),
		payrollService.NewResolver(policy),
		defaultRules,
		cfg.Payroll.Workers,
		hub,
	)
	renderer := payslipService.NewPDFRenderer()
	payslipSvc := payslipService.NewPayslipService(
		repos.payruns,
		repos.lines,
		repos.employees,
		payslipService.NewAssembler(cfg.Payslip.CompanyName, money.NewFormatter(cfg.Payslip.CurrencySymbol, cfg.Payslip.Locale)),
		renderer,
		fileStorage,
		cfg.Payroll.Workers,
	)
	dashboardSvc := dashboardService.NewDashboardService(repos.dashboard, repos.employees, repos.payruns)
	reportSvc := reportService.NewReportService(repos.payruns, repos.lines)

	router := appHTTP.NewRouter(ctx, appHTTP.RouterOptions{
		AppName:           cfg.App.Name,
		Version:           cfg.App.Version,
		Env:               cfg.App.Env,
		LogLevel:          level,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
		FilesPrefix:       cfg.Storage.BaseURL,
		Files:             files,
	}, JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, nil),
		Payrun:     appHTTP.NewPayrunHandler(payrunSvc, JWTService, hub),
		Payslip:    appHTTP.NewPayslipHandler(payslipSvc, renderer.ContentType()),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc, nil),
		Report:     appHTTP.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "store", cfg.App.Store, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.App.Store == "memory" {
		seed, err := config.LoadEmployeeSeed(cfg.App.SeedPath)
		if err != nil {
			return repositories{}, err
		}
		store := memory.NewStore()
		for _, e := range seed {
			store.PutEmployee(e)
		}
		slog.Info("using in-memory store", "employees", len(seed))

		return repositories{
			attendance: store.Attendance(),
			employees:  store.Employees(),
			payruns:    store.Payruns(),
			lines:      store.Lines(),
			dashboard:  store.Dashboard(),
			close:      func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return repositories{}, fmt.Errorf("connect to database: %w", err)
	}

	return repositories{
		attendance: postgresql.NewAttendanceRepository(db),
		employees:  postgresql.NewEmployeeRepository(db),
		payruns:    postgresql.NewPayrunRepository(db),
		lines:      postgresql.NewPayrollLineRepository(db),
		dashboard:  postgresql.NewDashboardRepository(db),
		close:      db.Close,
	}, nil
}
