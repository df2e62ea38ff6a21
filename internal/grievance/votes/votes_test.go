package votes

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"gramseva/internal/grievance/models"
)

type VotesSuite struct {
	suite.Suite
}

func TestVotesSuite(t *testing.T) {
	suite.Run(t, new(VotesSuite))
}

func (s *VotesSuite) TestVerifyBelowThresholdKeepsStatus() {
	out := Apply(models.StatusPendingVerification, 0, 0, models.VoteVerify)
	s.Equal(1, out.VerifyCount)
	s.Equal(0, out.DisputeCount)
	s.Equal(models.StatusPendingVerification, out.Status)
	s.False(out.StatusChanged)
}

func (s *VotesSuite) TestThirdVerifyResolves() {
	out := Apply(models.StatusPendingVerification, VerifyThreshold-1, 0, models.VoteVerify)
	s.Equal(VerifyThreshold, out.VerifyCount)
	s.Equal(models.StatusResolved, out.Status)
	s.True(out.StatusChanged)
}

func (s *VotesSuite) TestDisputeAlwaysReopens() {
	s.Run("even with accumulated verifies", func() {
		out := Apply(models.StatusPendingVerification, 2, 0, models.VoteDispute)
		s.Equal(2, out.VerifyCount)
		s.Equal(1, out.DisputeCount)
		s.Equal(models.StatusInProgress, out.Status)
		s.True(out.StatusChanged)
	})

	s.Run("already in progress", func() {
		out := Apply(models.StatusInProgress, 0, 1, models.VoteDispute)
		s.Equal(2, out.DisputeCount)
		s.Equal(models.StatusInProgress, out.Status)
		s.False(out.StatusChanged)
	})
}

func (s *VotesSuite) TestCountsAreMonotonic() {
	// Last-processed vote decides the transition, but no vote is dropped.
	out := Apply(models.StatusPendingVerification, 2, 0, models.VoteDispute)
	s.Equal(2, out.VerifyCount)
	s.Equal(1, out.DisputeCount)

	next := Apply(out.Status, out.VerifyCount, out.DisputeCount, models.VoteVerify)
	s.Equal(3, next.VerifyCount)
	s.Equal(1, next.DisputeCount)
}
