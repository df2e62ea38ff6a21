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

// MarkResolved moves an in-progress grievance to pending verification and
// opens the community verification window.
func (s *Service) MarkResolved(ctx context.Context, id domain.GrievanceID, req *models.ResolveGrievanceRequest) (*models.Grievance, error) {
	ctx, done := s.observe(ctx, "mark_resolved")
	var err error
	defer func() { done(err) }()

	now := s.now().UTC()
	g, err := s.store.Mutate(ctx, id, func(g *models.Grievance) (*store.Changeset, error) {
		if g.Status != models.StatusInProgress {
			return nil, dErrors.New(dErrors.CodeInvalidTransition,
				"only in-progress grievances can be marked resolved")
		}

		deadline := now.Add(verificationWindow)
		g.Status = models.StatusPendingVerification
		g.ResolvedAt = &now
		g.ResolutionNotes = req.ResolutionNotes
		g.ResolutionEvidence = req.ResolutionEvidence
		g.VerificationDeadline = &deadline
		g.UpdatedAt = now

		return &store.Changeset{
			Audit: audit.NewEntry(g.ID, audit.StatusUpdatedPayload{
				Number:    g.Number,
				NewStatus: string(models.StatusPendingVerification),
			}, now),
		}, nil
	})
	if err != nil {
		err = translate(err, "could not mark grievance resolved")
		return nil, err
	}

	s.metrics.StatusTransition(string(models.StatusInProgress), string(models.StatusPendingVerification))
	s.logger.InfoContext(ctx, "grievance marked resolved",
		slog.String("grievance_id", id.String()),
		slog.String("grievance_number", g.Number),
	)
	return g, nil
}
