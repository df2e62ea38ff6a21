package service

import (
	"context"
	"log/slog"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	"gramseva/internal/grievance/store"
	"gramseva/pkg/domain"
	dErrors "gramseva/pkg/domain-errors"
)

// SubmitUserSatisfaction records the reporter's write-once verdict on the
// resolution. Satisfied closes the grievance; not satisfied reopens work. A
// second submission is rejected, never overwritten.
func (s *Service) SubmitUserSatisfaction(ctx context.Context, id domain.GrievanceID, req *models.SatisfactionRequest) (*models.Grievance, error) {
	ctx, done := s.observe(ctx, "user_satisfaction")
	var err error
	defer func() { done(err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}
	verdict := models.Satisfaction(req.Satisfaction)

	var from models.Status
	now := s.now().UTC()
	g, err := s.store.Mutate(ctx, id, func(g *models.Grievance) (*store.Changeset, error) {
		if g.SatisfactionRecorded() {
			return nil, dErrors.New(dErrors.CodeAlreadyResponded,
				"reporter satisfaction has already been recorded")
		}
		from = g.Status

		newStatus := models.StatusResolved
		if verdict == models.NotSatisfied {
			newStatus = models.StatusInProgress
		}
		g.Status = newStatus
		g.Satisfaction = &verdict
		g.SatisfactionAt = &now
		g.UpdatedAt = now

		return &store.Changeset{
			Audit: audit.NewEntry(g.ID, audit.SatisfactionPayload{
				Number:       g.Number,
				Satisfaction: string(verdict),
				NewStatus:    string(newStatus),
			}, now),
		}, nil
	})
	if err != nil {
		err = translate(err, "could not record satisfaction")
		return nil, err
	}

	s.metrics.StatusTransition(string(from), string(g.Status))
	s.logger.InfoContext(ctx, "reporter satisfaction recorded",
		slog.String("grievance_id", id.String()),
		slog.String("satisfaction", string(verdict)),
		slog.String("status", string(g.Status)),
	)
	return g, nil
}
