package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

type PayrunRepository struct {
	store *Store
}

var _ payroll.PayrunRepository = (*PayrunRepository)(nil)

// Create implements payroll.PayrunRepository.
func (r *PayrunRepository) Create(ctx context.Context, payrun payroll.Payrun) (payroll.Payrun, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.payruns {
		if existing.Month == payrun.Month && existing.Year == payrun.Year && existing.Status != payroll.PayrunStatusCancelled {
			return payroll.Payrun{}, payroll.ErrPayrunExists
		}
	}

	if payrun.ID == "" {
		payrun.ID = newID()
	}
	now := s.now()
	payrun.Status = payroll.PayrunStatusDraft
	payrun.CreatedAt = now
	payrun.UpdatedAt = now

	s.payruns[payrun.ID] = payrun
	return s.withCountsLocked(payrun), nil
}

// GetByID implements payroll.PayrunRepository.
func (r *PayrunRepository) GetByID(ctx context.Context, id string) (payroll.Payrun, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	payrun, ok := s.payruns[id]
	if !ok {
		return payroll.Payrun{}, payroll.ErrPayrunNotFound
	}
	return s.withCountsLocked(payrun), nil
}

// List implements payroll.PayrunRepository.
func (r *PayrunRepository) List(ctx context.Context, filter payroll.PayrunFilter) ([]payroll.Payrun, int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]payroll.Payrun, 0, len(s.payruns))
	for _, p := range s.payruns {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, s.withCountsLocked(p))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := int64(len(out))
	if filter.Limit > 0 {
		start := filter.Offset()
		if start > len(out) {
			start = len(out)
		}
		end := start + filter.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

// Transition implements payroll.PayrunRepository.
func (r *PayrunRepository) Transition(ctx context.Context, id string, from []payroll.PayrunStatus, to payroll.PayrunStatus) (payroll.Payrun, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	payrun, ok := s.payruns[id]
	if !ok {
		return payroll.Payrun{}, payroll.ErrPayrunNotFound
	}

	allowed := false
	for _, status := range from {
		if payrun.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return payroll.Payrun{}, payroll.ErrInvalidTransition
	}

	payrun.Status = to
	payrun.UpdatedAt = s.now()
	s.payruns[id] = payrun
	return s.withCountsLocked(payrun), nil
}

func (s *Store) withCountsLocked(p payroll.Payrun) payroll.Payrun {
	p.LineCount, p.FailedCount = 0, 0
	for key, line := range s.lines {
		if key.payrunID != p.ID {
			continue
		}
		p.LineCount++
		if line.Status == payroll.LineStatusFailed {
			p.FailedCount++
		}
	}
	return p
}
