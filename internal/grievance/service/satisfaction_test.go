package service

import (
	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	dErrors "gramseva/pkg/domain-errors"
)

func (s *EngineSuite) readyForVerification() *models.Grievance {
	g := s.mustCreate()
	s.mustAccept(g.ID, 15)
	return s.mustResolve(g.ID)
}

func (s *EngineSuite) TestSatisfiedClosesGrievance() {
	g := s.readyForVerification()

	updated, err := s.engine.SubmitUserSatisfaction(s.ctx, g.ID, &models.SatisfactionRequest{
		Satisfaction: "satisfied",
	})
	s.Require().NoError(err)

	s.Equal(models.StatusResolved, updated.Status)
	s.Require().NotNil(updated.Satisfaction)
	s.Equal(models.Satisfied, *updated.Satisfaction)
	s.Require().NotNil(updated.SatisfactionAt)
	s.Equal(s.now, *updated.SatisfactionAt)

	trail, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(audit.EventUserSatisfaction, trail[0].Type)
}

func (s *EngineSuite) TestNotSatisfiedReopensWork() {
	g := s.readyForVerification()

	updated, err := s.engine.SubmitUserSatisfaction(s.ctx, g.ID, &models.SatisfactionRequest{
		Satisfaction: "not_satisfied",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, updated.Status)
}

func (s *EngineSuite) TestSatisfactionIsWriteOnce() {
	g := s.readyForVerification()

	_, err := s.engine.SubmitUserSatisfaction(s.ctx, g.ID, &models.SatisfactionRequest{Satisfaction: "satisfied"})
	s.Require().NoError(err)

	before, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)

	_, err = s.engine.SubmitUserSatisfaction(s.ctx, g.ID, &models.SatisfactionRequest{Satisfaction: "not_satisfied"})
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyResponded), "got %v", err)

	// Verdict and status survive the rejected overwrite, and no entry is
	// appended for it.
	current, err := s.engine.Get(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusResolved, current.Status)
	s.Equal(models.Satisfied, *current.Satisfaction)

	after, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Len(after, len(before))
}

func (s *EngineSuite) TestSatisfactionValidatesVerdict() {
	g := s.readyForVerification()

	_, err := s.engine.SubmitUserSatisfaction(s.ctx, g.ID, &models.SatisfactionRequest{Satisfaction: "meh"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
}
