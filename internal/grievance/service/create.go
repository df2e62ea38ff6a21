package service

import (
	"context"
	"errors"
	"log/slog"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/authority"
	"gramseva/internal/grievance/models"
	"gramseva/internal/sentinel"
	"gramseva/pkg/domain"
	dErrors "gramseva/pkg/domain-errors"
)

// Create registers a new grievance in pending at the panchayat level. The
// grievance number is generated here and re-rolled on collision; the store's
// uniqueness check is the authority, not the random source.
func (s *Service) Create(ctx context.Context, req *models.CreateGrievanceRequest) (*models.Grievance, error) {
	ctx, done := s.observe(ctx, "create")
	var err error
	defer func() { done(err) }()

	req.Normalize()
	if err = req.Validate(); err != nil {
		return nil, err
	}
	reporterID, err := domain.ParseUserID(req.ReporterID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	g := &models.Grievance{
		ID:                 domain.NewGrievanceID(),
		ReporterID:         reporterID,
		ReporterName:       req.FullName,
		ReporterMobile:     req.MobileNumber,
		Title:              req.Title,
		Category:           req.Category,
		Description:        req.Description,
		VillageName:        req.VillageName,
		Priority:           models.Priority(req.Priority),
		EvidenceFiles:      req.EvidenceFiles,
		VoiceRecordingURL:  req.VoiceRecordingURL,
		VoiceTranscription: req.VoiceTranscription,
		Status:             models.StatusPending,
		AuthorityLevel:     authority.Panchayat,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		g.Number = s.number(now.Year())
		entry := audit.NewEntry(g.ID, audit.SubmittedPayload{
			Number:   g.Number,
			Category: g.Category,
		}, now)

		err = s.store.Create(ctx, g, entry)
		if err == nil {
			s.metrics.GrievanceCreated()
			s.logger.InfoContext(ctx, "grievance created",
				slog.String("grievance_id", g.ID.String()),
				slog.String("grievance_number", g.Number),
				slog.String("category", g.Category),
			)
			return g, nil
		}
		if !errors.Is(err, sentinel.ErrAlreadyUsed) {
			err = translate(err, "could not persist grievance")
			return nil, err
		}
	}

	err = dErrors.Wrap(err, dErrors.CodeConflict, "could not allocate a unique grievance number")
	return nil, err
}
