package service

import (
	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	"gramseva/pkg/domain"
	dErrors "gramseva/pkg/domain-errors"
)

func (s *EngineSuite) vote(id domain.GrievanceID, voteType string) (*models.Grievance, error) {
	return s.engine.SubmitCommunityVote(s.ctx, id, &models.CommunityVoteRequest{
		VoteType: voteType,
		VoterID:  domain.NewUserID().String(),
	})
}

func (s *EngineSuite) TestThreeVerifiesResolve() {
	g := s.readyForVerification()

	for i := 0; i < 2; i++ {
		updated, err := s.vote(g.ID, "verify")
		s.Require().NoError(err)
		s.Equal(models.StatusPendingVerification, updated.Status)
	}

	updated, err := s.vote(g.ID, "verify")
	s.Require().NoError(err)
	s.Equal(models.StatusResolved, updated.Status)
	s.Equal(3, updated.VerifyCount)
	s.Zero(updated.DisputeCount)
}

func (s *EngineSuite) TestDisputeWinsOverAccumulatedVerifies() {
	g := s.readyForVerification()

	for i := 0; i < 2; i++ {
		_, err := s.vote(g.ID, "verify")
		s.Require().NoError(err)
	}

	updated, err := s.vote(g.ID, "dispute")
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, updated.Status)
	s.Equal(2, updated.VerifyCount)
	s.Equal(1, updated.DisputeCount)
}

func (s *EngineSuite) TestVoteAppendsRecordAndAuditEntry() {
	g := s.readyForVerification()

	_, err := s.engine.SubmitCommunityVote(s.ctx, g.ID, &models.CommunityVoteRequest{
		VoteType: "dispute",
		VoterID:  domain.NewUserID().String(),
		Comments: "Pump still leaking",
	})
	s.Require().NoError(err)

	verifications, err := s.engine.GetVerifications(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(verifications, 1)
	s.Equal(models.VoteDispute, verifications[0].Type)
	s.Equal("disputed", verifications[0].Status)
	s.Equal("Pump still leaking", verifications[0].Comments)

	trail, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(audit.EventCommunityVerification, trail[0].Type)
}

func (s *EngineSuite) TestVotesFreezeAfterReporterResponds() {
	g := s.readyForVerification()

	_, err := s.engine.SubmitUserSatisfaction(s.ctx, g.ID, &models.SatisfactionRequest{Satisfaction: "satisfied"})
	s.Require().NoError(err)

	before, err := s.engine.Get(s.ctx, g.ID)
	s.Require().NoError(err)
	trailBefore, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)

	for _, voteType := range []string{"verify", "dispute"} {
		updated, voteErr := s.vote(g.ID, voteType)
		s.Require().NoError(voteErr)
		s.Equal(before.Status, updated.Status)
		s.Equal(before.VerifyCount, updated.VerifyCount)
		s.Equal(before.DisputeCount, updated.DisputeCount)
	}

	// Frozen votes leave no trace: no vote records, no audit entries.
	verifications, err := s.engine.GetVerifications(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Empty(verifications)

	trailAfter, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Len(trailAfter, len(trailBefore))
}

func (s *EngineSuite) TestVoteValidation() {
	g := s.readyForVerification()

	_, err := s.engine.SubmitCommunityVote(s.ctx, g.ID, &models.CommunityVoteRequest{
		VoteType: "approve",
		VoterID:  domain.NewUserID().String(),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)

	_, err = s.engine.SubmitCommunityVote(s.ctx, g.ID, &models.CommunityVoteRequest{
		VoteType: "verify",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
}
