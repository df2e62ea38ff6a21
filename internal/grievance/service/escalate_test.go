package service

import (
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/authority"
	"gramseva/internal/grievance/models"
	dErrors "gramseva/pkg/domain-errors"
)

func (s *EngineSuite) TestEscalateClimbsOneRung() {
	g := s.mustCreate()

	updated, err := s.engine.Escalate(s.ctx, g.ID, &models.EscalateRequest{
		Reason:  longReason(),
		ActorID: s.officialID.String(),
	})
	s.Require().NoError(err)

	s.Equal(authority.Block, updated.AuthorityLevel)
	s.Equal(1, updated.EscalationCount)
	s.True(updated.IsEscalated)
	s.Require().NotNil(updated.EscalatedAt)
	s.Equal(s.now, *updated.EscalatedAt)
	s.Require().NotNil(updated.EscalationDueDate)
	s.Equal(s.now.Add(10*24*time.Hour), *updated.EscalationDueDate)

	history, err := s.engine.GetEscalationHistory(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(authority.Panchayat, history[0].FromLevel)
	s.Equal(authority.Block, history[0].ToLevel)
	s.False(history[0].AutoEscalated)
	s.Require().NotNil(history[0].EscalatedBy)
	s.Equal(s.officialID, *history[0].EscalatedBy)

	trail, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(audit.EventGrievanceEscalated, trail[0].Type)
}

func (s *EngineSuite) TestEscalateWithoutActorIsSystemDriven() {
	g := s.mustCreate()

	_, err := s.engine.Escalate(s.ctx, g.ID, &models.EscalateRequest{Reason: longReason()})
	s.Require().NoError(err)

	history, err := s.engine.GetEscalationHistory(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.True(history[0].AutoEscalated)
	s.Nil(history[0].EscalatedBy)
}

func (s *EngineSuite) TestEscalateSaturatesAtStateLevel() {
	g := s.mustCreate()

	const rounds = 5
	for i := 0; i < rounds; i++ {
		_, err := s.engine.Escalate(s.ctx, g.ID, &models.EscalateRequest{Reason: longReason()})
		s.Require().NoError(err)
	}

	current, err := s.engine.Get(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(authority.State, current.AuthorityLevel)
	s.Equal(rounds, current.EscalationCount)

	history, err := s.engine.GetEscalationHistory(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Len(history, rounds)

	// Past the last rung the history records state -> state.
	s.Equal(authority.State, history[0].FromLevel)
	s.Equal(authority.State, history[0].ToLevel)
}

func (s *EngineSuite) TestEscalateShortReasonChangesNothing() {
	g := s.mustCreate()

	_, err := s.engine.Escalate(s.ctx, g.ID, &models.EscalateRequest{Reason: "too vague"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)

	current, getErr := s.engine.Get(s.ctx, g.ID)
	s.Require().NoError(getErr)
	s.Equal(authority.Panchayat, current.AuthorityLevel)
	s.Zero(current.EscalationCount)

	trail, trailErr := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(trailErr)
	s.Len(trail, 1)
}

func (s *EngineSuite) TestCannotResolveEscalatesWithActor() {
	g := s.mustCreate()
	s.mustAccept(g.ID, 10)

	updated, err := s.engine.CannotResolve(s.ctx, g.ID, &models.CannotResolveRequest{
		Reason:     longReason(),
		OfficialID: s.officialID.String(),
	})
	s.Require().NoError(err)

	s.Require().NotNil(updated.CanResolve)
	s.False(*updated.CanResolve)
	s.Equal(authority.Block, updated.AuthorityLevel)
	s.Equal(1, updated.EscalationCount)

	history, err := s.engine.GetEscalationHistory(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.False(history[0].AutoEscalated)
	s.Require().NotNil(history[0].EscalatedBy)
	s.Equal(s.officialID, *history[0].EscalatedBy)
}

func (s *EngineSuite) TestCannotResolveValidation() {
	g := s.mustCreate()

	_, err := s.engine.CannotResolve(s.ctx, g.ID, &models.CannotResolveRequest{
		Reason:     "not long enough",
		OfficialID: s.officialID.String(),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)

	_, err = s.engine.CannotResolve(s.ctx, g.ID, &models.CannotResolveRequest{
		Reason: longReason(),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
}
