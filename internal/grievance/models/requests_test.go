package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "gramseva/pkg/domain-errors"
)

type RequestsSuite struct {
	suite.Suite
}

func TestRequestsSuite(t *testing.T) {
	suite.Run(t, new(RequestsSuite))
}

func validCreate() CreateGrievanceRequest {
	return CreateGrievanceRequest{
		Title:        "Hand pump broken for two weeks",
		Category:     "Water Supply",
		Description:  strings.Repeat("The only hand pump near the school has been broken. ", 2),
		VillageName:  "Rampur",
		ReporterID:   "6a8de5a3-0c6b-4bfb-b7c7-07d28b2e2a10",
		FullName:     "Asha Devi",
		MobileNumber: "+919876543210",
	}
}

func (s *RequestsSuite) TestCreateValidation() {
	s.Run("valid request passes", func() {
		req := validCreate()
		req.Normalize()
		s.NoError(req.Validate())
		s.Equal(string(PriorityMedium), req.Priority)
	})

	s.Run("short title rejected", func() {
		req := validCreate()
		req.Title = "Too short"
		req.Normalize()
		s.True(dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	s.Run("short description rejected", func() {
		req := validCreate()
		req.Description = "Not enough detail"
		req.Normalize()
		s.True(dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	s.Run("unknown category rejected", func() {
		req := validCreate()
		req.Category = "Street Lighting"
		req.Normalize()
		s.True(dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	s.Run("malformed mobile rejected", func() {
		req := validCreate()
		req.MobileNumber = "call me"
		req.Normalize()
		s.True(dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	s.Run("missing reporter identity rejected", func() {
		req := validCreate()
		req.ReporterID = ""
		req.Normalize()
		s.True(dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})
}

func (s *RequestsSuite) TestAcceptValidation() {
	s.Error((&AcceptGrievanceRequest{OfficialID: "o", ResolutionTimeline: 0}).Validate())
	s.Error((&AcceptGrievanceRequest{OfficialID: "", ResolutionTimeline: 15}).Validate())
	s.NoError((&AcceptGrievanceRequest{OfficialID: "o", ResolutionTimeline: 15}).Validate())
}

func (s *RequestsSuite) TestEscalateReasonLength() {
	req := EscalateRequest{Reason: strings.Repeat("x", MinReasonLength-1)}
	s.True(dErrors.HasCode(req.Validate(), dErrors.CodeValidation))

	req.Reason = strings.Repeat("x", MinReasonLength)
	s.NoError(req.Validate())
}

func (s *RequestsSuite) TestVoteValidation() {
	s.Error((&CommunityVoteRequest{VoteType: "approve", VoterID: "v"}).Validate())
	s.Error((&CommunityVoteRequest{VoteType: "verify"}).Validate())
	s.NoError((&CommunityVoteRequest{VoteType: "dispute", VoterID: "v"}).Validate())
}

func (s *RequestsSuite) TestSatisfactionValidation() {
	s.NoError((&SatisfactionRequest{Satisfaction: "satisfied"}).Validate())
	s.NoError((&SatisfactionRequest{Satisfaction: "not_satisfied"}).Validate())
	s.Error((&SatisfactionRequest{Satisfaction: "meh"}).Validate())
}
