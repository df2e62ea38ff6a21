package service

import (
	"context"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	"gramseva/pkg/domain"
)

// Read-only projections. All are derived from the persisted grievance set
// with no side effects; overdue detection in particular never transitions
// anything (the sweeper owns that policy).

func (s *Service) Get(ctx context.Context, id domain.GrievanceID) (*models.Grievance, error) {
	ctx, done := s.observe(ctx, "get")
	g, err := s.store.Get(ctx, id)
	err = translate(err, "could not load grievance")
	done(err)
	return g, err
}

func (s *Service) List(ctx context.Context) ([]*models.Grievance, error) {
	ctx, done := s.observe(ctx, "list")
	out, err := s.store.List(ctx)
	err = translate(err, "could not list grievances")
	done(err)
	return out, err
}

func (s *Service) ListByReporter(ctx context.Context, reporterID domain.UserID) ([]*models.Grievance, error) {
	ctx, done := s.observe(ctx, "list_by_reporter")
	out, err := s.store.ListByReporter(ctx, reporterID)
	err = translate(err, "could not list reporter grievances")
	done(err)
	return out, err
}

func (s *Service) ListByAssignee(ctx context.Context, officialID domain.UserID) ([]*models.Grievance, error) {
	ctx, done := s.observe(ctx, "list_by_assignee")
	out, err := s.store.ListByAssignee(ctx, officialID)
	err = translate(err, "could not list assigned grievances")
	done(err)
	return out, err
}

// ListAssigned returns grievances still being worked: pending or in progress.
func (s *Service) ListAssigned(ctx context.Context) ([]*models.Grievance, error) {
	ctx, done := s.observe(ctx, "list_assigned")
	out, err := s.store.ListAssignedOpen(ctx)
	err = translate(err, "could not list open grievances")
	done(err)
	return out, err
}

func (s *Service) ListPendingVerification(ctx context.Context) ([]*models.Grievance, error) {
	ctx, done := s.observe(ctx, "list_pending_verification")
	out, err := s.store.ListPendingVerification(ctx)
	err = translate(err, "could not list grievances pending verification")
	done(err)
	return out, err
}

// ListDisputed returns grievances whose resolution is contested: reporter
// not satisfied or at least one dispute vote.
func (s *Service) ListDisputed(ctx context.Context) ([]*models.Grievance, error) {
	ctx, done := s.observe(ctx, "list_disputed")
	out, err := s.store.ListDisputed(ctx)
	err = translate(err, "could not list disputed grievances")
	done(err)
	return out, err
}

// ListOverdue returns open grievances whose due date has passed.
func (s *Service) ListOverdue(ctx context.Context) ([]*models.Grievance, error) {
	ctx, done := s.observe(ctx, "list_overdue")
	out, err := s.store.ListOverdue(ctx, s.now().UTC())
	err = translate(err, "could not list overdue grievances")
	done(err)
	return out, err
}

func (s *Service) GetVerifications(ctx context.Context, id domain.GrievanceID) ([]models.Verification, error) {
	ctx, done := s.observe(ctx, "get_verifications")
	out, err := s.store.ListVerifications(ctx, id)
	err = translate(err, "could not load verifications")
	done(err)
	return out, err
}

// GetEscalationHistory returns the rungs climbed, newest first.
func (s *Service) GetEscalationHistory(ctx context.Context, id domain.GrievanceID) ([]models.EscalationRecord, error) {
	ctx, done := s.observe(ctx, "get_escalation_history")
	out, err := s.store.ListEscalations(ctx, id)
	err = translate(err, "could not load escalation history")
	done(err)
	return out, err
}

// GetAuditTrail returns the grievance's audit entries, newest first.
func (s *Service) GetAuditTrail(ctx context.Context, id domain.GrievanceID) ([]audit.Entry, error) {
	ctx, done := s.observe(ctx, "get_audit_trail")
	out, err := s.store.AuditTrail(ctx, id)
	err = translate(err, "could not load audit trail")
	done(err)
	return out, err
}
