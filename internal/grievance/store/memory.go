package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	"gramseva/internal/sentinel"
	"gramseva/pkg/domain"
)

// InMemoryStore keeps the full grievance dataset in process memory. Mutations
// for the same grievance serialize on a per-ID mutex; the global map mutex is
// only held for map lookups, so distinct grievances do not contend.
type InMemoryStore struct {
	mu            sync.RWMutex
	grievances    map[domain.GrievanceID]*models.Grievance
	numbers       map[string]domain.GrievanceID
	verifications map[domain.GrievanceID][]models.Verification
	escalations   map[domain.GrievanceID][]models.EscalationRecord
	locks         map[domain.GrievanceID]*sync.Mutex
	log           *audit.InMemoryLog
}

func NewInMemoryStore(log *audit.InMemoryLog) *InMemoryStore {
	if log == nil {
		log = audit.NewInMemoryLog()
	}
	return &InMemoryStore{
		grievances:    make(map[domain.GrievanceID]*models.Grievance),
		numbers:       make(map[string]domain.GrievanceID),
		verifications: make(map[domain.GrievanceID][]models.Verification),
		escalations:   make(map[domain.GrievanceID][]models.EscalationRecord),
		locks:         make(map[domain.GrievanceID]*sync.Mutex),
		log:           log,
	}
}

// AuditLog exposes the backing log for chain verification in tests and tooling.
func (s *InMemoryStore) AuditLog() *audit.InMemoryLog {
	return s.log
}

func (s *InMemoryStore) Create(ctx context.Context, g *models.Grievance, entry *audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.numbers[g.Number]; taken {
		return fmt.Errorf("grievance number %s: %w", g.Number, sentinel.ErrAlreadyUsed)
	}
	if _, exists := s.grievances[g.ID]; exists {
		return fmt.Errorf("grievance %s: %w", g.ID, sentinel.ErrAlreadyUsed)
	}

	if err := s.log.Append(ctx, entry); err != nil {
		return err
	}
	s.grievances[g.ID] = g.Clone()
	s.numbers[g.Number] = g.ID
	s.locks[g.ID] = &sync.Mutex{}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.GrievanceID) (*models.Grievance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.grievances[id]
	if !ok {
		return nil, fmt.Errorf("grievance %s: %w", id, sentinel.ErrNotFound)
	}
	return g.Clone(), nil
}

func (s *InMemoryStore) Mutate(ctx context.Context, id domain.GrievanceID, fn MutateFunc) (*models.Grievance, error) {
	s.mu.RLock()
	rowLock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("grievance %s: %w", id, sentinel.ErrNotFound)
	}

	rowLock.Lock()
	defer rowLock.Unlock()

	s.mu.RLock()
	current := s.grievances[id]
	s.mu.RUnlock()

	next := current.Clone()
	cs, err := fn(next)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		// No-op: nothing persisted, current state returned.
		return current.Clone(), nil
	}
	if cs.Audit == nil {
		return nil, fmt.Errorf("mutation of grievance %s produced no audit entry", id)
	}

	// Audit append is the only fallible commit step; do it first so a failure
	// leaves prior state fully untouched.
	if err := s.log.Append(ctx, cs.Audit); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.grievances[id] = next
	if cs.Verification != nil {
		s.verifications[id] = append(s.verifications[id], *cs.Verification)
	}
	if cs.Escalation != nil {
		s.escalations[id] = append(s.escalations[id], *cs.Escalation)
	}
	s.mu.Unlock()

	return next.Clone(), nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Grievance, error) {
	return s.filtered(func(*models.Grievance) bool { return true }), nil
}

func (s *InMemoryStore) ListByReporter(_ context.Context, reporterID domain.UserID) ([]*models.Grievance, error) {
	return s.filtered(func(g *models.Grievance) bool { return g.ReporterID == reporterID }), nil
}

func (s *InMemoryStore) ListByAssignee(_ context.Context, officialID domain.UserID) ([]*models.Grievance, error) {
	return s.filtered(func(g *models.Grievance) bool {
		return g.AssignedTo != nil && *g.AssignedTo == officialID
	}), nil
}

func (s *InMemoryStore) ListAssignedOpen(_ context.Context) ([]*models.Grievance, error) {
	return s.filtered(func(g *models.Grievance) bool {
		return g.Status == models.StatusPending || g.Status == models.StatusInProgress
	}), nil
}

func (s *InMemoryStore) ListPendingVerification(_ context.Context) ([]*models.Grievance, error) {
	return s.filtered(func(g *models.Grievance) bool {
		return g.Status == models.StatusPendingVerification
	}), nil
}

func (s *InMemoryStore) ListDisputed(_ context.Context) ([]*models.Grievance, error) {
	return s.filtered(func(g *models.Grievance) bool {
		return (g.Satisfaction != nil && *g.Satisfaction == models.NotSatisfied) || g.DisputeCount > 0
	}), nil
}

func (s *InMemoryStore) ListOverdue(_ context.Context, now time.Time) ([]*models.Grievance, error) {
	return s.filtered(func(g *models.Grievance) bool {
		if g.DueDate == nil || !g.DueDate.Before(now) {
			return false
		}
		return g.Status == models.StatusPending || g.Status == models.StatusInProgress
	}), nil
}

func (s *InMemoryStore) ListVerifications(_ context.Context, id domain.GrievanceID) ([]models.Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.verifications[id]
	out := make([]models.Verification, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

func (s *InMemoryStore) ListEscalations(_ context.Context, id domain.GrievanceID) ([]models.EscalationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.escalations[id]
	out := make([]models.EscalationRecord, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

func (s *InMemoryStore) AuditTrail(ctx context.Context, id domain.GrievanceID) ([]audit.Entry, error) {
	return s.log.ListByGrievance(ctx, id)
}

// filtered returns deep copies of matching grievances, newest first.
func (s *InMemoryStore) filtered(keep func(*models.Grievance) bool) []*models.Grievance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Grievance
	for _, g := range s.grievances {
		if keep(g) {
			out = append(out, g.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Number > out[j].Number
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
