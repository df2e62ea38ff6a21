package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"gramseva/internal/grievance/models"
	"gramseva/internal/grievance/service/mocks"
	"gramseva/internal/sentinel"
	"gramseva/pkg/domain"
	dErrors "gramseva/pkg/domain-errors"
)

// StorageFailureSuite verifies that backend failures surface as storage
// errors for the caller to retry; the engine itself never retries a failed
// mutation.
type StorageFailureSuite struct {
	suite.Suite
	ctx    context.Context
	ctrl   *gomock.Controller
	store  *mocks.MockStore
	engine *Service
}

func (s *StorageFailureSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.engine = New(s.store, WithClock(func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}))
}

func TestStorageFailureSuite(t *testing.T) {
	suite.Run(t, new(StorageFailureSuite))
}

func (s *StorageFailureSuite) TestCreateReportsStorageError() {
	s.store.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset"))

	_, err := s.engine.Create(s.ctx, &models.CreateGrievanceRequest{
		Title:        "Street light out on main road",
		Category:     "Electricity",
		Description:  "The only street light on the main road has been dark for a month and the stretch is unsafe after sunset.",
		VillageName:  "Rampur",
		ReporterID:   domain.NewUserID().String(),
		FullName:     "Asha Devi",
		MobileNumber: "+919876543210",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeStorage), "got %v", err)
}

func (s *StorageFailureSuite) TestMutationFailurePropagates() {
	id := domain.NewGrievanceID()
	s.store.EXPECT().
		Mutate(gomock.Any(), id, gomock.Any()).
		Return(nil, errors.New("connection reset"))

	_, err := s.engine.SubmitCommunityVote(s.ctx, id, &models.CommunityVoteRequest{
		VoteType: "verify",
		VoterID:  domain.NewUserID().String(),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeStorage), "got %v", err)
}

func (s *StorageFailureSuite) TestUnknownIDBecomesNotFound() {
	id := domain.NewGrievanceID()
	s.store.EXPECT().
		Get(gomock.Any(), id).
		Return(nil, fmt.Errorf("grievance %s: %w", id, sentinel.ErrNotFound))

	_, err := s.engine.Get(s.ctx, id)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
}

func (s *StorageFailureSuite) TestListFailurePropagates() {
	s.store.EXPECT().
		ListOverdue(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	_, err := s.engine.ListOverdue(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeStorage), "got %v", err)
}
