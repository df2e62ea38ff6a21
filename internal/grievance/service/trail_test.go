package service

import (
	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
)

// TestEveryTransitionPairsWithOneAuditEntry walks a full lifecycle and checks
// that the trail grows by exactly one matching entry per accepted operation
// and that the hash chain verifies end to end.
func (s *EngineSuite) TestEveryTransitionPairsWithOneAuditEntry() {
	g := s.mustCreate()
	want := []audit.EventType{audit.EventGrievanceSubmitted}

	s.mustAccept(g.ID, 15)
	want = append(want, audit.EventTaskAccepted)

	_, err := s.engine.CannotResolve(s.ctx, g.ID, &models.CannotResolveRequest{
		Reason:     longReason(),
		OfficialID: s.officialID.String(),
	})
	s.Require().NoError(err)
	want = append(want, audit.EventGrievanceEscalated)

	s.mustResolve(g.ID)
	want = append(want, audit.EventStatusUpdated)

	_, err = s.vote(g.ID, "verify")
	s.Require().NoError(err)
	want = append(want, audit.EventCommunityVerification)

	_, err = s.engine.SubmitUserSatisfaction(s.ctx, g.ID, &models.SatisfactionRequest{Satisfaction: "satisfied"})
	s.Require().NoError(err)
	want = append(want, audit.EventUserSatisfaction)

	trail, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(trail, len(want))

	// The trail reads newest first.
	for i, eventType := range want {
		s.Equal(eventType, trail[len(trail)-1-i].Type)
	}

	chronological, err := s.store.AuditLog().Chronological(s.ctx, g.ID)
	s.Require().NoError(err)
	s.NoError(audit.VerifyChain(chronological))
}
