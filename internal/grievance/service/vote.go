package service

import (
	"context"
	"log/slog"

	"gramseva/internal/audit"
	"gramseva/internal/grievance/models"
	"gramseva/internal/grievance/store"
	"gramseva/internal/grievance/votes"
	"gramseva/pkg/domain"
)

// SubmitCommunityVote records one citizen's verify or dispute signal. Once
// the reporter has responded the vote is a no-op returning current state:
// nothing is counted, appended, or transitioned. Otherwise the vote record,
// tally update, possible status change, and audit entry commit together.
func (s *Service) SubmitCommunityVote(ctx context.Context, id domain.GrievanceID, req *models.CommunityVoteRequest) (*models.Grievance, error) {
	ctx, done := s.observe(ctx, "community_vote")
	var err error
	defer func() { done(err) }()

	req.Normalize()
	if err = req.Validate(); err != nil {
		return nil, err
	}
	voterID, err := domain.ParseUserID(req.VoterID)
	if err != nil {
		return nil, err
	}
	voteType := models.VoteType(req.VoteType)

	var (
		frozen  bool
		from    models.Status
		outcome votes.Outcome
	)
	now := s.now().UTC()
	g, err := s.store.Mutate(ctx, id, func(g *models.Grievance) (*store.Changeset, error) {
		if g.SatisfactionRecorded() {
			frozen = true
			return nil, nil
		}
		from = g.Status

		outcome = votes.Apply(g.Status, g.VerifyCount, g.DisputeCount, voteType)
		g.Status = outcome.Status
		g.VerifyCount = outcome.VerifyCount
		g.DisputeCount = outcome.DisputeCount
		g.UpdatedAt = now

		return &store.Changeset{
			Audit: audit.NewEntry(g.ID, audit.VerificationPayload{
				Number:     g.Number,
				VoteType:   string(voteType),
				VoteStatus: models.VoteStatus(voteType),
			}, now),
			Verification: &models.Verification{
				ID:          domain.NewVerificationID(),
				GrievanceID: g.ID,
				VoterID:     voterID,
				Type:        voteType,
				Status:      models.VoteStatus(voteType),
				Comments:    req.Comments,
				CreatedAt:   now,
			},
		}, nil
	})
	if err != nil {
		err = translate(err, "could not record community vote")
		return nil, err
	}
	if frozen {
		s.logger.DebugContext(ctx, "community vote ignored, reporter already responded",
			slog.String("grievance_id", id.String()),
			slog.String("voter_id", voterID.String()),
		)
		return g, nil
	}

	s.metrics.VoteRecorded(string(voteType))
	if outcome.StatusChanged {
		s.metrics.StatusTransition(string(from), string(outcome.Status))
	}
	s.logger.InfoContext(ctx, "community vote recorded",
		slog.String("grievance_id", id.String()),
		slog.String("vote_type", string(voteType)),
		slog.Int("verify_count", outcome.VerifyCount),
		slog.Int("dispute_count", outcome.DisputeCount),
	)
	return g, nil
}
