package service

import (
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	dErrors "gramseva/pkg/domain-errors"
)

func (s *EngineSuite) TestMarkResolvedOpensVerificationWindow() {
	g := s.mustCreate()
	s.mustAccept(g.ID, 15)

	resolved, err := s.engine.MarkResolved(s.ctx, g.ID, &models.ResolveGrievanceRequest{
		ResolutionNotes:    "Pump repaired and tested",
		ResolutionEvidence: []string{"photo-1.jpg"},
	})
	s.Require().NoError(err)

	s.Equal(models.StatusPendingVerification, resolved.Status)
	s.Require().NotNil(resolved.ResolvedAt)
	s.Equal(s.now, *resolved.ResolvedAt)
	s.Require().NotNil(resolved.VerificationDeadline)
	s.Equal(s.now.Add(7*24*time.Hour), *resolved.VerificationDeadline)
	s.Equal("Pump repaired and tested", resolved.ResolutionNotes)
	s.Equal([]string{"photo-1.jpg"}, resolved.ResolutionEvidence)

	trail, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(trail, 3)
	s.Equal(audit.EventStatusUpdated, trail[0].Type)
}

func (s *EngineSuite) TestMarkResolvedRequiresInProgress() {
	g := s.mustCreate()

	_, err := s.engine.MarkResolved(s.ctx, g.ID, &models.ResolveGrievanceRequest{})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition), "got %v", err)

	s.mustAccept(g.ID, 10)
	s.mustResolve(g.ID)

	_, err = s.engine.MarkResolved(s.ctx, g.ID, &models.ResolveGrievanceRequest{})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition), "got %v", err)
}
