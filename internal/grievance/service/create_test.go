package service

import (
	"regexp"
	"time"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/authority"
	"gramseva/internal/grievance/models"
	dErrors "gramseva/pkg/domain-errors"
)

var numberPattern = regexp.MustCompile(`^GR\d{9}$`)

func (s *EngineSuite) TestCreateStartsPendingAtPanchayat() {
	g := s.mustCreate()

	s.Equal(models.StatusPending, g.Status)
	s.Equal(authority.Panchayat, g.AuthorityLevel)
	s.Zero(g.EscalationCount)
	s.Zero(g.VerifyCount)
	s.Zero(g.DisputeCount)
	s.Nil(g.AssignedTo)
	s.Regexp(numberPattern, g.Number)

	trail, err := s.engine.GetAuditTrail(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().Len(trail, 1)
	s.Equal(audit.EventGrievanceSubmitted, trail[0].Type)
	s.Len(trail[0].Ref, 64)
}

func (s *EngineSuite) TestCreateNumberCarriesYear() {
	g := s.mustCreate()
	s.Equal("GR2025", g.Number[:6])
}

func (s *EngineSuite) TestCreateValidation() {
	cases := []struct {
		name   string
		mutate func(*models.CreateGrievanceRequest)
	}{
		{"short title", func(r *models.CreateGrievanceRequest) { r.Title = "Too short" }},
		{"short description", func(r *models.CreateGrievanceRequest) { r.Description = "Not enough detail." }},
		{"unknown category", func(r *models.CreateGrievanceRequest) { r.Category = "Weather" }},
		{"missing village", func(r *models.CreateGrievanceRequest) { r.VillageName = "  " }},
		{"missing reporter", func(r *models.CreateGrievanceRequest) { r.ReporterID = "" }},
		{"bad mobile", func(r *models.CreateGrievanceRequest) { r.MobileNumber = "12345" }},
		{"unknown priority", func(r *models.CreateGrievanceRequest) { r.Priority = "urgent" }},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			req := s.createRequest()
			tc.mutate(req)
			_, err := s.engine.Create(s.ctx, req)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
}

func (s *EngineSuite) TestCreateMalformedReporterID() {
	req := s.createRequest()
	req.ReporterID = "not-a-uuid"
	_, err := s.engine.Create(s.ctx, req)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest), "got %v", err)
}

func (s *EngineSuite) TestCreateRerollsNumberOnCollision() {
	numbers := []string{"GR202500001", "GR202500001", "GR202500002"}
	engine := New(s.store,
		WithClock(func() time.Time { return s.now }),
		WithNumberSource(func(int) string {
			n := numbers[0]
			if len(numbers) > 1 {
				numbers = numbers[1:]
			}
			return n
		}),
	)

	first, err := engine.Create(s.ctx, s.createRequest())
	s.Require().NoError(err)
	s.Equal("GR202500001", first.Number)

	second, err := engine.Create(s.ctx, s.createRequest())
	s.Require().NoError(err)
	s.Equal("GR202500002", second.Number)
}

func (s *EngineSuite) TestCreateGivesUpWhenNumbersExhausted() {
	engine := New(s.store,
		WithClock(func() time.Time { return s.now }),
		WithNumberSource(func(int) string { return "GR202500042" }),
	)

	_, err := engine.Create(s.ctx, s.createRequest())
	s.Require().NoError(err)

	_, err = engine.Create(s.ctx, s.createRequest())
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "got %v", err)
}
