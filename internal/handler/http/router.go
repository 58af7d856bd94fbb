package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

// RouterOptions carries the transport settings taken from configuration.
type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string

	RequestsPerMinute int
	Burst             int

	// FilesPrefix and Files serve published payslips from local storage. Both optional.
	FilesPrefix string
	Files       http.Handler
}

type Handlers struct {
	Attendance AttendanceHandler
	Payrun     PayrunHandler
	Payslip    PayslipHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
}

func NewRouter(ctx context.Context, opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	perMinute := opts.RequestsPerMinute
	if perMinute < 1 {
		perMinute = 120
	}
	burst := opts.Burst
	if burst < 1 {
		burst = perMinute
	}
	limit := middleware.RateLimit(ctx, rate.Every(time.Minute/time.Duration(perMinute)), burst)

	if opts.Files != nil && opts.FilesPrefix != "" {
		r.With(limit).Handle(opts.FilesPrefix+"/*", http.StripPrefix(opts.FilesPrefix, opts.Files))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limit)

		// The event stream authenticates with a short-lived token in the query string.
		r.Get("/payruns/{id}/events", h.Payrun.Events)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Get("/sse-token", h.Payrun.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(identity.PermissionAttendanceSelf))
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
					r.Get("/today", h.Attendance.Today)
					r.Get("/", h.Attendance.ListMine)
				})

				// Access to other employees is decided per employee by the service.
				r.Route("/employees/{employeeID}", func(r chi.Router) {
					r.Get("/", h.Attendance.ListEmployee)
					r.Get("/summary", h.Attendance.Summary)
					r.With(middleware.RequirePermission(identity.PermissionAttendanceManage)).
						Post("/status", h.Attendance.MarkStatus)
				})
			})

			r.Route("/payruns", func(r chi.Router) {
				r.With(middleware.RequirePermission(identity.PermissionPayrunView)).Get("/", h.Payrun.List)
				r.With(middleware.RequirePermission(identity.PermissionPayrunManage)).Post("/", h.Payrun.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(identity.PermissionPayrunView))
						r.Get("/", h.Payrun.Get)
						r.Get("/lines", h.Payrun.ListLines)
						r.Get("/register", h.Report.Register)
						r.Get("/register.xlsx", h.Report.ExportRegister)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(identity.PermissionPayrunManage))
						r.Post("/compute", h.Payrun.Compute)
						r.Patch("/status", h.Payrun.UpdateStatus)
					})

					r.Route("/payslips", func(r chi.Router) {
						r.With(middleware.RequirePermission(identity.PermissionPayslipPublish)).
							Post("/publish", h.Payslip.Publish)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequireAnyPermission(identity.PermissionPayslipViewAll, identity.PermissionPayslipViewOwn))
							r.Get("/{employeeID}", h.Payslip.Get)
							r.Get("/{employeeID}/pdf", h.Payslip.Download)
						})
					})
				})
			})

			r.With(middleware.RequirePermission(identity.PermissionDashboardView)).
				Get("/dashboard/payroll", h.Dashboard.Payroll)
		})
	})
	return r
}
