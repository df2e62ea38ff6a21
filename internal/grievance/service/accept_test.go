package service

import (
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	"gramseva/pkg/domain"
	dErrors "gramseva/pkg/domain-errors"
)

func (s *EngineSuite) TestAcceptAssignsOfficialAndDeadline() {
	g := s.mustCreate()

	accepted := s.mustAccept(g.ID, 15)

	s.Equal(models.StatusInProgress, accepted.Status)
	s.Require().NotNil(accepted.AssignedTo)
	s.Equal(s.officialID, *accepted.AssignedTo)
	s.Equal(15, accepted.ResolutionTimeline)
	s.Require().NotNil(accepted.DueDate)
	s.Equal(s.now.Add(15*24*time.Hour), *accepted.DueDate)

	trail, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(trail, 2)
	s.Equal(audit.EventTaskAccepted, trail[0].Type)
}

func (s *EngineSuite) TestAcceptRequiresPending() {
	g := s.mustCreate()
	s.mustAccept(g.ID, 10)

	_, err := s.engine.Accept(s.ctx, g.ID, &models.AcceptGrievanceRequest{
		OfficialID:         s.officialID.String(),
		ResolutionTimeline: 10,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition), "got %v", err)

	// The rejected call must not add an audit entry.
	trail, trailErr := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(trailErr)
	s.Len(trail, 2)
}

func (s *EngineSuite) TestAcceptUnknownGrievance() {
	_, err := s.engine.Accept(s.ctx, domain.NewGrievanceID(), &models.AcceptGrievanceRequest{
		OfficialID:         s.officialID.String(),
		ResolutionTimeline: 10,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
}

func (s *EngineSuite) TestAcceptValidatesTimeline() {
	g := s.mustCreate()

	for _, days := range []int{0, -3} {
		_, err := s.engine.Accept(s.ctx, g.ID, &models.AcceptGrievanceRequest{
			OfficialID:         s.officialID.String(),
			ResolutionTimeline: days,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation), "days=%d got %v", days, err)
	}
}
