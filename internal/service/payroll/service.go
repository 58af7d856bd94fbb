package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/sse"
	"golang.org/x/sync/errgroup"
)

// Progress event names published on the payrun topic.
const (
	EventComputeStarted  = "compute.started"
	EventLineComputed    = "line.computed"
	EventComputeFinished = "compute.finished"
	EventComputeAborted  = "compute.aborted"
)

// ProgressPublisher receives compute progress keyed by payrun id.
type ProgressPublisher interface {
	Publish(topic string, event sse.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, sse.Event) {}

// LineProgress is the payload of a line.computed event.
type LineProgress struct {
	EmployeeID string             `json:"employee_id"`
	Status     payroll.LineStatus `json:"status"`
	Done       int                `json:"done"`
	Total      int                `json:"total"`
}

type PayrunServiceImpl struct {
	payrunRepo   payroll.PayrunRepository
	lineRepo     payroll.PayrollLineRepository
	employeeRepo employee.EmployeeRepository
	aggregator   attendance.WorkedDaysAggregator
	resolver     payroll.Resolver
	defaultRules []payroll.CompensationRule
	workers      int
	progress     ProgressPublisher
	locks        *keyedMutex
	now          func() time.Time
}

func NewPayrunService(
	payrunRepo payroll.PayrunRepository,
	lineRepo payroll.PayrollLineRepository,
	employeeRepo employee.EmployeeRepository,
	aggregator attendance.WorkedDaysAggregator,
	resolver payroll.Resolver,
	defaultRules []payroll.CompensationRule,
	workers int,
	progress ProgressPublisher,
) *PayrunServiceImpl {
	if workers < 1 {
		workers = 1
	}
	if progress == nil {
		progress = noopPublisher{}
	}
	return &PayrunServiceImpl{
		payrunRepo:   payrunRepo,
		lineRepo:     lineRepo,
		employeeRepo: employeeRepo,
		aggregator:   aggregator,
		resolver:     resolver,
		defaultRules: defaultRules,
		workers:      workers,
		progress:     progress,
		locks:        newKeyedMutex(),
		now:          time.Now,
	}
}

var _ payroll.PayrunService = (*PayrunServiceImpl)(nil)

// ========== LIFECYCLE ==========

func (s *PayrunServiceImpl) CreatePayrun(ctx context.Context, actor identity.Identity, req payroll.CreatePayrunRequest) (payroll.Payrun, error) {
	if err := actor.Require(identity.PermissionPayrunManage); err != nil {
		return payroll.Payrun{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.Payrun{}, err
	}

	created, err := s.payrunRepo.Create(ctx, payroll.Payrun{
		Month:     req.Month,
		Year:      req.Year,
		Status:    payroll.PayrunStatusDraft,
		CreatedBy: actor.UserID,
	})
	if err != nil {
		if errors.Is(err, payroll.ErrPayrunExists) {
			return payroll.Payrun{}, err
		}
		return payroll.Payrun{}, fmt.Errorf("failed to create payrun: %w", err)
	}

	slog.Info("payrun created", "payrun_id", created.ID, "period", created.PeriodStart().Format("2006-01"), "by", actor.UserID)
	return created, nil
}

// ComputeAll computes a line for every active employee. Per-employee input
// problems become failed lines; a payrun closed mid-run aborts the batch.
func (s *PayrunServiceImpl) ComputeAll(ctx context.Context, actor identity.Identity, payrunID string) (payroll.ComputeResult, error) {
	if err := actor.Require(identity.PermissionPayrunManage); err != nil {
		return payroll.ComputeResult{}, err
	}

	run, err := s.payrunRepo.Transition(ctx, payrunID,
		[]payroll.PayrunStatus{payroll.PayrunStatusDraft, payroll.PayrunStatusProcessing},
		payroll.PayrunStatusProcessing)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidTransition) {
			return payroll.ComputeResult{}, payroll.ErrPayrunClosed
		}
		return payroll.ComputeResult{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.ComputeResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	total := len(employees)
	s.progress.Publish(payrunID, sse.Event{Event: EventComputeStarted, Data: map[string]int{"total": total}})

	var (
		mu       sync.Mutex
		computed int
		failures = make([]payroll.LineFailure, 0)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, emp := range employees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			line, err := s.computeLine(gctx, run, emp)
			if err != nil {
				return err
			}

			mu.Lock()
			if line.Status == payroll.LineStatusFailed {
				failures = append(failures, payroll.LineFailure{EmployeeID: emp.ID, Reason: line.FailureReason})
			} else {
				computed++
			}
			done := computed + len(failures)
			mu.Unlock()

			s.progress.Publish(payrunID, sse.Event{Event: EventLineComputed, Data: LineProgress{
				EmployeeID: emp.ID,
				Status:     line.Status,
				Done:       done,
				Total:      total,
			}})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.progress.Publish(payrunID, sse.Event{Event: EventComputeAborted, Data: map[string]string{"reason": apperror.MessageOf(err)}, Final: true})
		slog.Warn("payrun compute aborted", "payrun_id", payrunID, "error", err)
		return payroll.ComputeResult{}, err
	}

	refreshed, err := s.payrunRepo.GetByID(ctx, payrunID)
	if err != nil {
		return payroll.ComputeResult{}, fmt.Errorf("failed to reload payrun: %w", err)
	}

	result := payroll.ComputeResult{
		Payrun:   payroll.NewPayrunResponse(refreshed),
		Computed: computed,
		Failed:   len(failures),
		Failures: failures,
	}
	s.progress.Publish(payrunID, sse.Event{Event: EventComputeFinished, Data: result, Final: true})

	slog.Info("payrun computed", "payrun_id", payrunID, "computed", computed, "failed", len(failures))
	return result, nil
}

// computeLine resolves and stores one employee's line. It returns an error
// only when the whole batch must stop.
func (s *PayrunServiceImpl) computeLine(ctx context.Context, run payroll.Payrun, emp employee.Employee) (payroll.Line, error) {
	unlock := s.locks.Lock(emp.ID + "/" + run.ID)
	defer unlock()

	worked, records, err := s.aggregator.Summarize(ctx, emp.ID, run.PeriodStart(), run.PeriodEnd())
	if err != nil && !recoverable(err) {
		return payroll.Line{}, fmt.Errorf("failed to summarize attendance for %s: %w", emp.ID, err)
	}

	var line payroll.Line
	if err == nil {
		var comp payroll.Computation
		comp, err = s.resolver.Resolve(emp.BasicWage, emp.Rules(s.defaultRules), worked, records)
		if err != nil && !recoverable(err) {
			return payroll.Line{}, fmt.Errorf("failed to resolve salary for %s: %w", emp.ID, err)
		}
		if err == nil {
			line = payroll.NewComputedLine(run.ID, emp.ID, comp, worked, s.now())
		}
	}
	if err != nil {
		slog.Warn("payroll line failed", "payrun_id", run.ID, "employee_id", emp.ID, "error", err)
		line = payroll.NewFailedLine(run.ID, emp.ID, apperror.MessageOf(err), worked, s.now())
	}

	saved, err := s.lineRepo.Upsert(ctx, line)
	if err != nil {
		return payroll.Line{}, err
	}
	return saved, nil
}

// recoverable reports whether an employee-level error should become a failed line.
func recoverable(err error) bool {
	return apperror.IsValidation(err) || apperror.IsNotFound(err)
}

func (s *PayrunServiceImpl) Complete(ctx context.Context, actor identity.Identity, payrunID string) (payroll.Payrun, error) {
	return s.transition(ctx, actor, payrunID, payroll.PayrunStatusCompleted)
}

func (s *PayrunServiceImpl) Cancel(ctx context.Context, actor identity.Identity, payrunID string) (payroll.Payrun, error) {
	return s.transition(ctx, actor, payrunID, payroll.PayrunStatusCancelled)
}

func (s *PayrunServiceImpl) UpdateStatus(ctx context.Context, actor identity.Identity, payrunID string, req payroll.UpdatePayrunStatusRequest) (payroll.Payrun, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payrun{}, err
	}

	switch to := payroll.PayrunStatus(req.Status); to {
	case payroll.PayrunStatusProcessing:
		return s.transition(ctx, actor, payrunID, to)
	case payroll.PayrunStatusCompleted:
		return s.Complete(ctx, actor, payrunID)
	case payroll.PayrunStatusCancelled:
		return s.Cancel(ctx, actor, payrunID)
	default:
		if err := actor.Require(identity.PermissionPayrunManage); err != nil {
			return payroll.Payrun{}, err
		}
		return payroll.Payrun{}, payroll.ErrInvalidTransition
	}
}

func (s *PayrunServiceImpl) transition(ctx context.Context, actor identity.Identity, payrunID string, to payroll.PayrunStatus) (payroll.Payrun, error) {
	if err := actor.Require(identity.PermissionPayrunManage); err != nil {
		return payroll.Payrun{}, err
	}

	updated, err := s.payrunRepo.Transition(ctx, payrunID, payroll.SourcesOf(to), to)
	if err != nil {
		return payroll.Payrun{}, err
	}

	slog.Info("payrun status changed", "payrun_id", payrunID, "status", to, "by", actor.UserID)
	return updated, nil
}

// ========== READS ==========

func (s *PayrunServiceImpl) GetPayrun(ctx context.Context, actor identity.Identity, payrunID string) (payroll.Payrun, error) {
	if err := actor.Require(identity.PermissionPayrunView); err != nil {
		return payroll.Payrun{}, err
	}
	return s.payrunRepo.GetByID(ctx, payrunID)
}

func (s *PayrunServiceImpl) ListPayruns(ctx context.Context, actor identity.Identity, filter payroll.PayrunFilter) ([]payroll.Payrun, int64, error) {
	if err := actor.Require(identity.PermissionPayrunView); err != nil {
		return nil, 0, err
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	payruns, total, err := s.payrunRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payruns: %w", err)
	}
	return payruns, total, nil
}

func (s *PayrunServiceImpl) ListLines(ctx context.Context, actor identity.Identity, payrunID string) ([]payroll.Line, error) {
	if err := actor.Require(identity.PermissionPayrunView); err != nil {
		return nil, err
	}
	if _, err := s.payrunRepo.GetByID(ctx, payrunID); err != nil {
		return nil, err
	}

	lines, err := s.lineRepo.ListByPayrun(ctx, payrunID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	return lines, nil
}

func (s *PayrunServiceImpl) GetLine(ctx context.Context, actor identity.Identity, payrunID, employeeID string) (payroll.Line, error) {
	if !actor.CanAccessEmployee(employeeID, identity.PermissionPayrunView) {
		return payroll.Line{}, identity.ErrForbidden
	}
	return s.lineRepo.GetByPayrunAndEmployee(ctx, payrunID, employeeID)
}
