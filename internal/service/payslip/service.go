package payslip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/storage"
	"golang.org/x/sync/errgroup"
)

type PayslipServiceImpl struct {
	payrunRepo   payroll.PayrunRepository
	lineRepo     payroll.PayrollLineRepository
	employeeRepo employee.EmployeeRepository
	assembler    payslip.Assembler
	renderer     payslip.Renderer
	storage      storage.FileStorage
	workers      int
}

func NewPayslipService(
	payrunRepo payroll.PayrunRepository,
	lineRepo payroll.PayrollLineRepository,
	employeeRepo employee.EmployeeRepository,
	assembler payslip.Assembler,
	renderer payslip.Renderer,
	fileStorage storage.FileStorage,
	workers int,
) payslip.PayslipService {
	if workers < 1 {
		workers = 1
	}
	return &PayslipServiceImpl{
		payrunRepo:   payrunRepo,
		lineRepo:     lineRepo,
		employeeRepo: employeeRepo,
		assembler:    assembler,
		renderer:     renderer,
		storage:      fileStorage,
		workers:      workers,
	}
}

type slip struct {
	doc payslip.Document
	emp employee.Employee
	run payroll.Payrun
}

// load fetches and assembles one payslip. Callers without the view-all
// permission only see their own slips of completed payruns.
func (s *PayslipServiceImpl) load(ctx context.Context, actor identity.Identity, payrunID, employeeID string) (slip, error) {
	viewAll := actor.Can(identity.PermissionPayslipViewAll)
	if !viewAll && !actor.Can(identity.PermissionPayslipViewOwn) {
		return slip{}, identity.ErrForbidden
	}
	if !actor.CanAccessEmployee(employeeID, identity.PermissionPayslipViewAll) {
		return slip{}, identity.ErrForbidden
	}

	run, err := s.payrunRepo.GetByID(ctx, payrunID)
	if err != nil {
		return slip{}, err
	}
	if !viewAll && run.Status != payroll.PayrunStatusCompleted {
		return slip{}, payslip.ErrPayrunNotCompleted
	}

	line, err := s.lineRepo.GetByPayrunAndEmployee(ctx, payrunID, employeeID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollLineNotFound) {
			return slip{}, payslip.ErrPayslipNotFound
		}
		return slip{}, fmt.Errorf("failed to get payroll line: %w", err)
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return slip{}, err
	}

	doc, err := s.assembler.Assemble(line, emp, run)
	if err != nil {
		return slip{}, err
	}
	return slip{doc: doc, emp: emp, run: run}, nil
}

func (s *PayslipServiceImpl) Get(ctx context.Context, actor identity.Identity, payrunID, employeeID string) (payslip.Document, error) {
	loaded, err := s.load(ctx, actor, payrunID, employeeID)
	if err != nil {
		return payslip.Document{}, err
	}
	return loaded.doc, nil
}

func (s *PayslipServiceImpl) Render(ctx context.Context, actor identity.Identity, payrunID, employeeID string, w io.Writer) (string, error) {
	loaded, err := s.load(ctx, actor, payrunID, employeeID)
	if err != nil {
		return "", err
	}

	if err := s.renderer.Render(w, loaded.doc); err != nil {
		return "", err
	}
	return s.fileName(loaded.emp, loaded.run), nil
}

// Publish renders every computed line of a completed payrun into storage.
func (s *PayslipServiceImpl) Publish(ctx context.Context, actor identity.Identity, payrunID string) (payslip.PublishResult, error) {
	if err := actor.Require(identity.PermissionPayslipPublish); err != nil {
		return payslip.PublishResult{}, err
	}

	run, err := s.payrunRepo.GetByID(ctx, payrunID)
	if err != nil {
		return payslip.PublishResult{}, err
	}
	if run.Status != payroll.PayrunStatusCompleted {
		return payslip.PublishResult{}, payslip.ErrPayrunNotCompleted
	}

	lines, err := s.lineRepo.ListByPayrun(ctx, payrunID)
	if err != nil {
		return payslip.PublishResult{}, fmt.Errorf("failed to list payroll lines: %w", err)
	}

	result := payslip.PublishResult{PayrunID: payrunID, Files: make(map[string]string)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, line := range lines {
		if line.Status != payroll.LineStatusComputed {
			result.Skipped++
			continue
		}

		g.Go(func() error {
			url, err := s.publishLine(gctx, run, line)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Files[line.EmployeeID] = url
			result.Published++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return payslip.PublishResult{}, err
	}

	slog.Info("payslips published", "payrun_id", payrunID, "published", result.Published, "skipped", result.Skipped)
	return result, nil
}

func (s *PayslipServiceImpl) publishLine(ctx context.Context, run payroll.Payrun, line payroll.Line) (string, error) {
	emp, err := s.employeeRepo.GetByID(ctx, line.EmployeeID)
	if err != nil {
		return "", fmt.Errorf("failed to get employee %s: %w", line.EmployeeID, err)
	}

	doc, err := s.assembler.Assemble(line, emp, run)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, doc); err != nil {
		return "", err
	}

	key := path.Join("payslips", run.PeriodStart().Format("2006-01"), run.ID, s.fileName(emp, run))
	stored, err := s.storage.Upload(ctx, &buf, key, s.renderer.ContentType())
	if err != nil {
		return "", fmt.Errorf("failed to store payslip for %s: %w", emp.ID, err)
	}
	return s.storage.URL(stored), nil
}

func (s *PayslipServiceImpl) fileName(emp employee.Employee, run payroll.Payrun) string {
	code := emp.EmployeeCode
	if code == "" {
		code = emp.ID
	}
	return fmt.Sprintf("payslip-%s-%s%s", code, run.PeriodStart().Format("2006-01"), s.renderer.Extension())
}
