package service

import (
	"context"
	"log/slog"
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/authority"
	"gramseva/internal/grievance/models"
	"gramseva/internal/grievance/store"
	"gramseva/pkg/domain"
)

// Escalate forces a grievance one rung up the authority ladder. At the top
// tier the level stays put but the escalation still counts and is recorded.
// An absent actor marks the history entry as system-driven.
func (s *Service) Escalate(ctx context.Context, id domain.GrievanceID, req *models.EscalateRequest) (*models.Grievance, error) {
	ctx, done := s.observe(ctx, "escalate")
	var err error
	defer func() { done(err) }()

	req.Normalize()
	if err = req.Validate(); err != nil {
		return nil, err
	}
	var actor *domain.UserID
	if req.ActorID != "" {
		actorID, parseErr := domain.ParseUserID(req.ActorID)
		if parseErr != nil {
			err = parseErr
			return nil, err
		}
		actor = &actorID
	}

	now := s.now().UTC()
	g, err := s.store.Mutate(ctx, id, func(g *models.Grievance) (*store.Changeset, error) {
		return s.applyEscalation(g, req.Reason, actor, now), nil
	})
	if err != nil {
		err = translate(err, "could not escalate grievance")
		return nil, err
	}

	trigger := "manual"
	if actor == nil {
		trigger = "auto"
	}
	s.metrics.Escalated(trigger)
	s.logger.InfoContext(ctx, "grievance escalated",
		slog.String("grievance_id", id.String()),
		slog.String("authority_level", string(g.AuthorityLevel)),
		slog.Int("escalation_count", g.EscalationCount),
		slog.Bool("auto_escalated", actor == nil),
	)
	return g, nil
}

// CannotResolve records an official declining a grievance and escalates it
// with the same reason in the same atomic unit.
func (s *Service) CannotResolve(ctx context.Context, id domain.GrievanceID, req *models.CannotResolveRequest) (*models.Grievance, error) {
	ctx, done := s.observe(ctx, "cannot_resolve")
	var err error
	defer func() { done(err) }()

	req.Normalize()
	if err = req.Validate(); err != nil {
		return nil, err
	}
	officialID, err := domain.ParseUserID(req.OfficialID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	g, err := s.store.Mutate(ctx, id, func(g *models.Grievance) (*store.Changeset, error) {
		cannot := false
		g.CanResolve = &cannot
		return s.applyEscalation(g, req.Reason, &officialID, now), nil
	})
	if err != nil {
		err = translate(err, "could not record cannot-resolve")
		return nil, err
	}

	s.metrics.Escalated("cannot_resolve")
	s.logger.InfoContext(ctx, "grievance marked unresolvable and escalated",
		slog.String("grievance_id", id.String()),
		slog.String("official_id", officialID.String()),
		slog.String("authority_level", string(g.AuthorityLevel)),
	)
	return g, nil
}

// applyEscalation climbs the authority ladder in place and builds the
// matching changeset. Callers hold the grievance inside a store mutation.
func (s *Service) applyEscalation(g *models.Grievance, reason string, actor *domain.UserID, now time.Time) *store.Changeset {
	from := g.AuthorityLevel
	to := authority.Next(from)
	due := now.Add(escalationWindow)

	g.AuthorityLevel = to
	g.EscalationCount++
	g.EscalationReason = reason
	g.EscalationDueDate = &due
	g.IsEscalated = true
	g.EscalatedAt = &now
	g.UpdatedAt = now

	return &store.Changeset{
		Audit: audit.NewEntry(g.ID, audit.EscalatedPayload{
			Number:        g.Number,
			FromLevel:     string(from),
			ToLevel:       string(to),
			Reason:        reason,
			AutoEscalated: actor == nil,
		}, now),
		Escalation: &models.EscalationRecord{
			ID:            domain.NewEscalationID(),
			GrievanceID:   g.ID,
			FromLevel:     from,
			ToLevel:       to,
			Reason:        reason,
			EscalatedBy:   actor,
			AutoEscalated: actor == nil,
			CreatedAt:     now,
		},
	}
}
