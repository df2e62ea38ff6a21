package service

import (
	"context"
	"log/slog"
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	"gramseva/internal/grievance/store"
	"gramseva/pkg/domain"
	dErrors "gramseva/pkg/domain-errors"
)

// Accept assigns the grievance to an official with a resolution deadline.
// Only pending grievances can be accepted.
func (s *Service) Accept(ctx context.Context, id domain.GrievanceID, req *models.AcceptGrievanceRequest) (*models.Grievance, error) {
	ctx, done := s.observe(ctx, "accept")
	var err error
	defer func() { done(err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}
	officialID, err := domain.ParseUserID(req.OfficialID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	g, err := s.store.Mutate(ctx, id, func(g *models.Grievance) (*store.Changeset, error) {
		if g.Status != models.StatusPending {
			return nil, dErrors.New(dErrors.CodeInvalidTransition,
				"only pending grievances can be accepted")
		}

		due := now.Add(time.Duration(req.ResolutionTimeline) * 24 * time.Hour)
		g.Status = models.StatusInProgress
		g.AssignedTo = &officialID
		g.ResolutionTimeline = req.ResolutionTimeline
		g.DueDate = &due
		g.UpdatedAt = now

		return &store.Changeset{
			Audit: audit.NewEntry(g.ID, audit.TaskAcceptedPayload{
				Number:       g.Number,
				OfficialID:   officialID.String(),
				TimelineDays: req.ResolutionTimeline,
				DueDate:      due,
			}, now),
		}, nil
	})
	if err != nil {
		err = translate(err, "could not accept grievance")
		return nil, err
	}

	s.metrics.StatusTransition(string(models.StatusPending), string(models.StatusInProgress))
	s.logger.InfoContext(ctx, "grievance accepted",
		slog.String("grievance_id", id.String()),
		slog.String("official_id", officialID.String()),
		slog.Int("timeline_days", req.ResolutionTimeline),
	)
	return g, nil
}
